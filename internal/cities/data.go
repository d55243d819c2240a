package cities

// table lists every supported city. ID is the yabiladi.com page id.
var table = []City{
	{ID: 101, Name: "Tangier", NameAR: "طنجة", NameFR: "Tanger", Lat: 35.7595, Lon: -5.8340},
	{ID: 71, Name: "Casablanca", NameAR: "الدار البيضاء", NameFR: "Casablanca", Lat: 33.5731, Lon: -7.5898},
	{ID: 95, Name: "Rabat", NameAR: "الرباط", NameFR: "Rabat", Lat: 34.0209, Lon: -6.8416},
	{ID: 88, Name: "Marrakech", NameAR: "مراكش", NameFR: "Marrakech", Lat: 31.6295, Lon: -7.9811},
	{ID: 78, Name: "Fes", NameAR: "فاس", NameFR: "Fes", Lat: 34.0181, Lon: -5.0078},
	{ID: 66, Name: "Agadir", NameAR: "أكادير", NameFR: "Agadir", Lat: 30.4278, Lon: -9.5981},
	{ID: 89, Name: "Meknes", NameAR: "مكناس", NameFR: "Meknes", Lat: 33.8935, Lon: -5.5473},
	{ID: 93, Name: "Oujda", NameAR: "وجدة", NameFR: "Oujda", Lat: 34.6814, Lon: -1.9086},
	{ID: 81, Name: "Kenitra", NameAR: "القنيطرة", NameFR: "Kenitra", Lat: 34.2610, Lon: -6.5802},
	{ID: 100, Name: "Tetouan", NameAR: "تطوان", NameFR: "Tetouan", Lat: 35.5889, Lon: -5.3626},
	{ID: 96, Name: "Safi", NameAR: "آسفي", NameFR: "Safi", Lat: 32.2994, Lon: -9.2372},
	{ID: 90, Name: "Mohammedia", NameAR: "المحمدية", NameFR: "Mohammedia", Lat: 33.6866, Lon: -7.3837},
	{ID: 83, Name: "Khouribga", NameAR: "خريبكة", NameFR: "Khouribga", Lat: 32.8811, Lon: -6.9063},
	{ID: 74, Name: "El Jadida", NameAR: "الجديدة", NameFR: "El Jadida", Lat: 33.2316, Lon: -8.5007},
	{ID: 105, Name: "Taza", NameAR: "تازة", NameFR: "Taza", Lat: 34.2133, Lon: -4.0103},
	{ID: 91, Name: "Nador", NameAR: "الناظور", NameFR: "Nador", Lat: 35.1681, Lon: -2.9287},
	{ID: 98, Name: "Settat", NameAR: "سطات", NameFR: "Settat", Lat: 33.0018, Lon: -7.6164},
	{ID: 87, Name: "Larache", NameAR: "العرائش", NameFR: "Larache", Lat: 35.1932, Lon: -6.1563},
	{ID: 82, Name: "Khenifra", NameAR: "خنيفرة", NameFR: "Khenifra", Lat: 32.9359, Lon: -5.6675},
	{ID: 76, Name: "Essaouira", NameAR: "الصويرة", NameFR: "Essaouira", Lat: 31.5085, Lon: -9.7595},
	{ID: 72, Name: "Chefchaouen", NameAR: "شفشاون", NameFR: "Chefchaouen", Lat: 35.1688, Lon: -5.2636},
	{ID: 68, Name: "Beni Mellal", NameAR: "بني ملال", NameFR: "Beni Mellal", Lat: 32.3373, Lon: -6.3498},
	{ID: 79, Name: "Al Hoceima", NameAR: "الحسيمة", NameFR: "Al Hoceima", Lat: 35.2517, Lon: -3.9316},
	{ID: 103, Name: "Taroudant", NameAR: "تارودانت", NameFR: "Taroudant", Lat: 30.4703, Lon: -8.8770},
	{ID: 92, Name: "Ouazzane", NameAR: "وزان", NameFR: "Ouazzane", Lat: 34.7936, Lon: -5.5836},
	{ID: 97, Name: "Sefrou", NameAR: "صفرو", NameFR: "Sefrou", Lat: 33.8307, Lon: -4.8372},
	{ID: 69, Name: "Berkane", NameAR: "بركان", NameFR: "Berkane", Lat: 34.9218, Lon: -2.3200},
	{ID: 75, Name: "Errachidia", NameAR: "الراشيدية", NameFR: "Errachidia", Lat: 31.9314, Lon: -4.4244},
	{ID: 85, Name: "Laayoune", NameAR: "العيون", NameFR: "Laayoune", Lat: 27.1253, Lon: -13.1625},
	{ID: 106, Name: "Tiznit", NameAR: "تزنيت", NameFR: "Tiznit", Lat: 29.6974, Lon: -9.7316},
	{ID: 80, Name: "Ifrane", NameAR: "إفران", NameFR: "Ifrane", Lat: 33.5228, Lon: -5.1106},
	{ID: 107, Name: "Zagora", NameAR: "زاكورة", NameFR: "Zagora", Lat: 30.3314, Lon: -5.8372},
	{ID: 73, Name: "Dakhla", NameAR: "الداخلة", NameFR: "Dakhla", Lat: 23.6848, Lon: -15.9570},
	{ID: 102, Name: "Tan Tan", NameAR: "طانطان", NameFR: "Tan-Tan", Lat: 28.4378, Lon: -11.1031},
	{ID: 99, Name: "Sidi Kacem", NameAR: "سيدي قاسم", NameFR: "Sidi Kacem", Lat: 34.2214, Lon: -5.7081},
	{ID: 84, Name: "Ksar Lekbir", NameAR: "القصر الكبير", NameFR: "Ksar el-Kebir", Lat: 35.0119, Lon: -5.9033},
	{ID: 104, Name: "Taounate", NameAR: "تاونات", NameFR: "Taounate", Lat: 34.5386, Lon: -4.6372},
	{ID: 67, Name: "Assila", NameAR: "أصيلة", NameFR: "Asilah", Lat: 35.4650, Lon: -6.0362},
	{ID: 70, Name: "Boulemane", NameAR: "بولمان", NameFR: "Boulemane", Lat: 33.3614, Lon: -4.7331},
	{ID: 94, Name: "Kalaat Sraghna", NameAR: "قلعة السراغنة", NameFR: "Kalaat es-Sraghna", Lat: 32.0587, Lon: -7.4103},
	{ID: 86, Name: "Lagouira", NameAR: "الكويرة", NameFR: "Lagouira", Lat: 20.9331, Lon: -17.0439},
	{ID: 108, Name: "Moulay Idriss Zerhoun", NameAR: "مولاي إدريس زرهون", NameFR: "Moulay Idriss Zerhoun", Lat: 34.0581, Lon: -5.5203},
	{ID: 77, Name: "Smara", NameAR: "السمارة", NameFR: "Smara", Lat: 26.7386, Lon: -11.6719},
}
