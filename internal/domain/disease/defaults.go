package disease

var defaultCatalog = mustDefaultCatalog()

// Default returns the built-in catalog with CommonCold as the fallback label.
func Default() Catalog { return defaultCatalog }

func mustDefaultCatalog() Catalog {
	infos := []Info{
		mustInfo(CommonCold,
			[]string{
				"Rest and stay hydrated",
				"Take over-the-counter cold medicine",
				"Use a humidifier",
				"Gargle with warm salt water",
			},
			[]string{
				"Wash hands frequently",
				"Cover mouth when coughing",
				"Use tissues for nose blowing",
				"Avoid close contact with others",
			},
			"Visit a doctor if symptoms persist for more than 10 days or if you have difficulty breathing.",
			GeneralPhysician,
		),
		mustInfo(Flu,
			[]string{
				"Rest and stay hydrated",
				"Take antiviral medication if prescribed",
				"Use fever-reducing medication",
				"Stay home to avoid spreading",
			},
			[]string{
				"Get annual flu vaccine",
				"Practice good hygiene",
				"Avoid touching face",
				"Stay home when sick",
			},
			"Seek immediate medical attention if you have difficulty breathing, chest pain, or severe weakness.",
			GeneralPhysician,
		),
		mustInfo(Covid19,
			[]string{
				"Isolate immediately",
				"Monitor oxygen levels",
				"Take prescribed medications",
				"Seek emergency care if breathing becomes difficult",
			},
			[]string{
				"Wear a mask in public",
				"Maintain social distance",
				"Get vaccinated if eligible",
				"Regular hand washing",
			},
			"Seek emergency care if you experience difficulty breathing, persistent chest pain, or confusion.",
			Pulmonologist,
		),
		mustInfo(Gastroenteritis,
			[]string{
				"Stay hydrated with clear fluids",
				"Follow BRAT diet (Bananas, Rice, Applesauce, Toast)",
				"Take anti-nausea medication if needed",
				"Rest and avoid dairy products",
			},
			[]string{
				"Practice food safety",
				"Wash hands thoroughly",
				"Avoid sharing utensils",
				"Stay hydrated",
			},
			"Visit a doctor if you have severe dehydration, blood in stool, or symptoms lasting more than 3 days.",
			Gastroenterologist,
		),
		mustInfo(AnxietyDisorder,
			[]string{
				"Practice deep breathing exercises",
				"Try meditation or mindfulness",
				"Consider talking to a therapist",
				"Maintain regular sleep schedule",
			},
			[]string{
				"Limit caffeine intake",
				"Practice regular exercise",
				"Maintain a healthy diet",
				"Get adequate sleep",
			},
			"Consult a mental health professional if anxiety interferes with daily life or if you experience panic attacks.",
			Psychiatrist,
		),
		mustInfo(Depression,
			[]string{
				"Seek professional help",
				"Maintain regular exercise routine",
				"Establish a daily routine",
				"Stay connected with friends and family",
			},
			[]string{
				"Maintain regular sleep schedule",
				"Exercise regularly",
				"Stay connected with others",
				"Avoid alcohol and drugs",
			},
			"Seek immediate help if you have thoughts of self-harm or if symptoms persist for more than two weeks.",
			Psychiatrist,
		),
	}

	c, err := NewCatalog(infos, CommonCold)
	if err != nil {
		panic(err)
	}
	return c
}

func mustInfo(label Label, recs, precs []string, doctor, spec string) Info {
	info, err := NewInfo(label, recs, precs, doctor, spec)
	if err != nil {
		panic(err)
	}
	return info
}
