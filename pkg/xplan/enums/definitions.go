package enums

import "github.com/diwise/xplan-gml/pkg/xplan/version"

var (
	only53 = version.Only(version.V5_3)
	only60 = version.Only(version.V6_0)
)

func definitions() []Enumeration {
	return []Enumeration{
		{Name: "XP_Rechtscharakter", Values: []Value{
			{Code: "1000", Name: "FestsetzungBPlan"},
			{Code: "1500", Name: "DarstellungFPlan"},
			{Code: "1800", Name: "InhaltLPlan"},
			{Code: "2000", Name: "NachrichtlicheUebernahme"},
			{Code: "3000", Name: "Hinweis"},
			{Code: "4000", Name: "Vermerk"},
			{Code: "5000", Name: "Kennzeichnung"},
			{Code: "9998", Name: "Unbekannt"},
			{Code: "9999", Name: "SonstigerStatus"},
		}},
		{Name: "BP_Rechtscharakter", Values: []Value{
			{Code: "1000", Name: "Festsetzung"},
			{Code: "2000", Name: "NachrichtlicheUebernahme"},
			{Code: "3000", Name: "Hinweis"},
			{Code: "4000", Name: "Vermerk"},
			{Code: "5000", Name: "Kennzeichnung"},
			{Code: "9998", Name: "Unbekannt"},
		}},
		{Name: "FP_Rechtscharakter", Values: []Value{
			{Code: "1000", Name: "Darstellung"},
			{Code: "2000", Name: "NachrichtlicheUebernahme"},
			{Code: "3000", Name: "Hinweis"},
			{Code: "4000", Name: "Vermerk"},
			{Code: "5000", Name: "Kennzeichnung"},
			{Code: "9998", Name: "Unbekannt"},
		}},
		{Name: "SO_Rechtscharakter", Values: []Value{
			{Code: "1000", Name: "FestsetzungBPlan"},
			{Code: "1500", Name: "DarstellungFPlan"},
			{Code: "1800", Name: "InhaltLPlan"},
			{Code: "2000", Name: "NachrichtlicheUebernahme"},
			{Code: "3000", Name: "Hinweis"},
			{Code: "4000", Name: "Vermerk"},
			{Code: "5000", Name: "Kennzeichnung"},
			{Code: "9998", Name: "Unbekannt"},
			{Code: "9999", Name: "Sonstiges"},
		}},
		{Name: "XP_Rechtsstand", Values: []Value{
			{Code: "1000", Name: "Geplant"},
			{Code: "2000", Name: "Bestehend"},
			{Code: "3000", Name: "Fortfallend"},
		}},
		{Name: "BP_PlanArt", Values: []Value{
			{Code: "1000", Name: "BPlan"},
			{Code: "10000", Name: "EinfacherBPlan"},
			{Code: "10001", Name: "QualifizierterBPlan"},
			{Code: "10002", Name: "BebauungsplanZurWohnraumversorgung"},
			{Code: "3000", Name: "VorhabenbezogenerBPlan"},
			{Code: "3100", Name: "VorhabenUndErschliessungsplan"},
			{Code: "4000", Name: "InnenbereichsSatzung"},
			{Code: "40000", Name: "KlarstellungsSatzung"},
			{Code: "40001", Name: "EntwicklungsSatzung"},
			{Code: "40002", Name: "ErgaenzungsSatzung"},
			{Code: "5000", Name: "AussenbereichsSatzung"},
			{Code: "7000", Name: "OertlicheBauvorschrift"},
			{Code: "9999", Name: "Sonstiges"},
		}},
		{Name: "BP_Verfahren", Values: []Value{
			{Code: "1000", Name: "Normal"},
			{Code: "2000", Name: "Parag13"},
			{Code: "3000", Name: "Parag13a"},
			{Code: "4000", Name: "Parag13b", Mask: only60},
		}},
		{Name: "BP_Rechtsstand", Values: []Value{
			{Code: "1000", Name: "Aufstellungsbeschluss"},
			{Code: "2000", Name: "Entwurf"},
			{Code: "2100", Name: "FruehzeitigeBehoerdenBeteiligung"},
			{Code: "2200", Name: "FruehzeitigeOeffentlichkeitsBeteiligung"},
			{Code: "2300", Name: "BehoerdenBeteiligung"},
			{Code: "2400", Name: "OeffentlicheAuslegung"},
			{Code: "3000", Name: "Satzung"},
			{Code: "4000", Name: "InkraftGetreten"},
			{Code: "4500", Name: "TeilweiseUntergegangen"},
			{Code: "5000", Name: "Untergegangen"},
			{Code: "50000", Name: "Aufgehoben"},
			{Code: "50001", Name: "AusserKraft"},
		}},
		{Name: "FP_PlanArt", Values: []Value{
			{Code: "1000", Name: "FPlan"},
			{Code: "2000", Name: "GemeinsamerFPlan"},
			{Code: "3000", Name: "RegFPlan"},
			{Code: "4000", Name: "FPlanRegPlan"},
			{Code: "5000", Name: "SachlicherTeilplan"},
			{Code: "9999", Name: "Sonstiges"},
		}},
		{Name: "FP_Rechtsstand", Values: []Value{
			{Code: "1000", Name: "Aufstellungsbeschluss"},
			{Code: "2000", Name: "Entwurf"},
			{Code: "2100", Name: "FruehzeitigeBehoerdenBeteiligung"},
			{Code: "2200", Name: "FruehzeitigeOeffentlichkeitsBeteiligung"},
			{Code: "2300", Name: "BehoerdenBeteiligung"},
			{Code: "2400", Name: "OeffentlicheAuslegung"},
			{Code: "3000", Name: "Plan"},
			{Code: "4000", Name: "Wirksamkeit"},
			{Code: "5000", Name: "Untergegangen"},
			{Code: "50000", Name: "Aufgehoben"},
			{Code: "50001", Name: "AusserKraft"},
		}},
		{Name: "SO_PlanArt", Values: []Value{
			{Code: "1000", Name: "Gruenordnungsplan", Mask: only60},
			{Code: "2000", Name: "Landschaftsplan", Mask: only60},
			{Code: "9999", Name: "Sonstiges"},
		}},
		{Name: "XP_BedeutungenBereich", Values: []Value{
			{Code: "1600", Name: "Teilbereich"},
			{Code: "1800", Name: "Kompensationsbereich"},
			{Code: "9999", Name: "Sonstiges"},
		}},
		{Name: "XP_ExterneReferenzArt", Values: []Value{
			{Code: "Dokument", Name: "Dokument"},
			{Code: "PlanMitGeoreferenz", Name: "PlanMitGeoreferenz"},
		}},
		{Name: "XP_ExterneReferenzTyp", Values: []Value{
			{Code: "1000", Name: "Beschreibung"},
			{Code: "1010", Name: "Begruendung"},
			{Code: "1020", Name: "Legende"},
			{Code: "1030", Name: "Rechtsplan"},
			{Code: "1040", Name: "Plangrundlage"},
			{Code: "1050", Name: "Umweltbericht"},
			{Code: "1060", Name: "Satzung"},
			{Code: "1065", Name: "Verordnung", Mask: only60},
			{Code: "1070", Name: "Karte"},
			{Code: "1080", Name: "Erlaeuterung"},
			{Code: "1090", Name: "ZusammenfassendeErklaerung"},
			{Code: "2000", Name: "Koordinatenliste"},
			{Code: "2100", Name: "Grundstuecksverzeichnis"},
			{Code: "2200", Name: "Pflanzliste"},
			{Code: "2300", Name: "Gruenordnungsplan"},
			{Code: "2400", Name: "Erschliessungsvertrag"},
			{Code: "2500", Name: "Durchfuehrungsvertrag"},
			{Code: "2600", Name: "StaedtebaulicherVertrag"},
			{Code: "2700", Name: "UmweltbezogeneStellungnahmen"},
			{Code: "2800", Name: "Beschluss"},
			{Code: "2900", Name: "VorhabenUndErschliessungsplan"},
			{Code: "3000", Name: "MetadatenPlan"},
			{Code: "3100", Name: "StaedtebaulEntwicklungskonzeptInnenentwicklung", Mask: only60},
			{Code: "4000", Name: "Genehmigung"},
			{Code: "5000", Name: "Bekanntmachung"},
			{Code: "6000", Name: "Schutzgebietsverordnung", Mask: only60},
			{Code: "9998", Name: "Rechtsverbindlich"},
			{Code: "9999", Name: "Informell"},
		}},
		{Name: "XP_AllgArtDerBaulNutzung", Values: []Value{
			{Code: "1000", Name: "WohnBauflaeche"},
			{Code: "2000", Name: "GemischteBauflaeche"},
			{Code: "3000", Name: "GewerblicheBauflaeche"},
			{Code: "4000", Name: "SonderBauflaeche"},
			{Code: "9999", Name: "SonstigeBauflaeche"},
		}},
		{Name: "XP_BesondereArtDerBaulNutzung", Values: []Value{
			{Code: "1000", Name: "Kleinsiedlungsgebiet"},
			{Code: "1100", Name: "ReinesWohngebiet"},
			{Code: "1200", Name: "AllgWohngebiet"},
			{Code: "1300", Name: "BesonderesWohngebiet"},
			{Code: "1400", Name: "Dorfgebiet"},
			{Code: "1450", Name: "DoerflichesWohngebiet", Mask: only60},
			{Code: "1500", Name: "Mischgebiet"},
			{Code: "1550", Name: "UrbanesGebiet"},
			{Code: "1600", Name: "Kerngebiet"},
			{Code: "1700", Name: "Gewerbegebiet"},
			{Code: "1800", Name: "Industriegebiet"},
			{Code: "2000", Name: "SondergebietErholung"},
			{Code: "2100", Name: "SondergebietSonst"},
			{Code: "3000", Name: "Wochenendhausgebiet"},
			{Code: "4000", Name: "Sondergebiet"},
			{Code: "9999", Name: "SonstigesGebiet"},
		}},
		{Name: "XP_Sondernutzungen", Values: []Value{
			{Code: "1000", Name: "KeineSondernutzung"},
			{Code: "1100", Name: "Wochenendhausgebiet"},
			{Code: "1200", Name: "Ferienhausgebiet"},
			{Code: "1300", Name: "Campingplatzgebiet"},
			{Code: "1400", Name: "Kurgebiet"},
			{Code: "1500", Name: "SonstSondergebietErholung"},
			{Code: "1600", Name: "Einzelhandelsgebiet"},
			{Code: "1700", Name: "GrossflaechigerEinzelhandel"},
			{Code: "16000", Name: "Ladengebiet"},
			{Code: "16001", Name: "Einkaufszentrum"},
			{Code: "1800", Name: "Verkehrsuebungsplatz"},
			{Code: "1900", Name: "Hafengebiet"},
			{Code: "2000", Name: "SondergebietErneuerbareEnergie"},
			{Code: "2100", Name: "SondergebietMilitaer"},
			{Code: "2200", Name: "SondergebietLandwirtschaft"},
			{Code: "2300", Name: "SondergebietSport"},
			{Code: "2400", Name: "SondergebietGesundheitSoziales"},
			{Code: "2500", Name: "Golfplatz"},
			{Code: "2600", Name: "SondergebietKultur"},
			{Code: "2700", Name: "SondergebietTourismus"},
			{Code: "2800", Name: "SondergebietBueroUndVerwaltung"},
			{Code: "2900", Name: "SondergebietJustiz"},
			{Code: "3000", Name: "SondergebietHochschuleForschung"},
			{Code: "3100", Name: "SondergebietMesse"},
			{Code: "9999", Name: "SondergebietAndereNutzungen"},
		}},
		{Name: "XP_Bauweise", Values: []Value{
			{Code: "1000", Name: "OffeneBauweise"},
			{Code: "2000", Name: "GeschlosseneBauweise"},
			{Code: "3000", Name: "AbweichendeBauweise"},
		}},
		{Name: "XP_Nutzungsform", Values: []Value{
			{Code: "1000", Name: "Privat"},
			{Code: "2000", Name: "Oeffentlich"},
		}},
		{Name: "XP_ZweckbestimmungGruen", Values: []Value{
			{Code: "1000", Name: "Parkanlage"},
			{Code: "1200", Name: "Dauerkleingaerten"},
			{Code: "1400", Name: "Sportplatz"},
			{Code: "1600", Name: "Spielplatz"},
			{Code: "1800", Name: "Zeltplatz"},
			{Code: "2000", Name: "Badeplatz"},
			{Code: "2200", Name: "FreizeitErholung"},
			{Code: "2400", Name: "SpezGruenflaeche"},
			{Code: "2600", Name: "Friedhof"},
			{Code: "2700", Name: "Naturerfahrungsraum", Mask: only60},
			{Code: "9999", Name: "SonstigerZweck"},
		}},
		{Name: "BP_EinfahrtTypen", Values: []Value{
			{Code: "1000", Name: "Einfahrt"},
			{Code: "2000", Name: "Ausfahrt"},
			{Code: "3000", Name: "EinAusfahrt"},
		}},
		{Name: "XP_ABEMassnahmenTypen", Values: []Value{
			{Code: "1000", Name: "BindungErhaltung"},
			{Code: "2000", Name: "Anpflanzung"},
			{Code: "3000", Name: "AnpflanzungBindungErhaltung"},
		}},
		{Name: "XP_AnpflanzungBindungErhaltungsGegenstand", Values: []Value{
			{Code: "1000", Name: "Baeume"},
			{Code: "1100", Name: "Kopfbaeume"},
			{Code: "1200", Name: "Baumreihe"},
			{Code: "2000", Name: "Straeucher"},
			{Code: "2050", Name: "BaeumeUndStraeucher"},
			{Code: "2100", Name: "Hecke"},
			{Code: "2200", Name: "Knick"},
			{Code: "3000", Name: "SonstBepflanzung"},
			{Code: "4000", Name: "Gewaesser"},
			{Code: "5000", Name: "Fassadenbegruenung"},
			{Code: "6000", Name: "Dachbegruenung"},
		}},
		{Name: "SO_KlassifizSchutzgebietWasserrecht", Values: []Value{
			{Code: "1000", Name: "Wasserschutzgebiet"},
			{Code: "10000", Name: "QuellGrundwasserSchutzgebiet"},
			{Code: "10001", Name: "OberflaechengewaesserSchutzgebiet"},
			{Code: "2000", Name: "Heilquellenschutzgebiet"},
			{Code: "9999", Name: "Sonstiges"},
		}},
		{Name: "SO_SchutzzonenWasserrecht", Values: []Value{
			{Code: "1000", Name: "Zone_1"},
			{Code: "1100", Name: "Zone_2"},
			{Code: "1200", Name: "Zone_3"},
			{Code: "1300", Name: "Zone_3a"},
			{Code: "1400", Name: "Zone_3b"},
			{Code: "1500", Name: "Zone_4", Mask: only53},
		}},
		{Name: "XP_ArtHoehenbezug", Values: []Value{
			{Code: "1000", Name: "absolutNHN"},
			{Code: "1100", Name: "absolutNN"},
			{Code: "1200", Name: "absolutDHHN"},
			{Code: "2000", Name: "relativGelaendeoberkante"},
			{Code: "2500", Name: "relativGehwegOberkante"},
			{Code: "3000", Name: "relativBezugshoehe"},
			{Code: "3500", Name: "relativStrasse"},
			{Code: "4000", Name: "relativEFH"},
		}},
		{Name: "XP_ArtHoehenbezugspunkt", Values: []Value{
			{Code: "1000", Name: "TH"},
			{Code: "2000", Name: "FH"},
			{Code: "3000", Name: "OK"},
			{Code: "3500", Name: "LH"},
			{Code: "4000", Name: "SH"},
			{Code: "4500", Name: "EFH"},
			{Code: "5000", Name: "HBA"},
			{Code: "5500", Name: "UK"},
			{Code: "6000", Name: "GBH"},
			{Code: "6500", Name: "WH"},
			{Code: "6600", Name: "GOK"},
		}},
		{Name: "XP_VerlaengerungVeraenderungssperre", Values: []Value{
			{Code: "1000", Name: "Keine"},
			{Code: "2000", Name: "ErsteVerlaengerung"},
			{Code: "3000", Name: "ZweiteVerlaengerung"},
		}},
		{Name: "XP_HorizontaleAusrichtung", Values: []Value{
			{Code: "linksbündig", Name: "linksbuendig"},
			{Code: "rechtsbündig", Name: "rechtsbuendig"},
			{Code: "zentrisch", Name: "zentrisch"},
		}},
		{Name: "XP_VertikaleAusrichtung", Values: []Value{
			{Code: "Basis", Name: "Basis"},
			{Code: "Mitte", Name: "Mitte"},
			{Code: "Oben", Name: "Oben"},
		}},
	}
}

func migrations() []Migration {
	ms := []Migration{
		{FromEnum: "XP_ExterneReferenzTyp", FromCode: "1065", ToEnum: "XP_ExterneReferenzTyp", ToCode: "1060"},
		{FromEnum: "XP_ExterneReferenzTyp", FromCode: "6000", ToEnum: "XP_ExterneReferenzTyp", ToCode: "1060"},
		{FromEnum: "XP_BesondereArtDerBaulNutzung", FromCode: "1450", ToEnum: "XP_BesondereArtDerBaulNutzung", ToCode: "1400"},
	}

	// 5.3 legal character values per plan family map onto the shared 6.0 enumeration
	shared := map[string]string{
		"2000": "2000",
		"3000": "3000",
		"4000": "4000",
		"5000": "5000",
		"9998": "9998",
	}

	families := []struct {
		enum        string
		festsetzung string
	}{
		{"BP_Rechtscharakter", "1000"},
		{"FP_Rechtscharakter", "1500"},
		{"SO_Rechtscharakter", ""},
	}

	for _, f := range families {
		if f.festsetzung != "" {
			ms = append(ms,
				Migration{FromEnum: f.enum, FromCode: "1000", ToEnum: "XP_Rechtscharakter", ToCode: f.festsetzung},
				Migration{FromEnum: "XP_Rechtscharakter", FromCode: f.festsetzung, ToEnum: f.enum, ToCode: "1000"},
			)
		}
		for from, to := range shared {
			ms = append(ms,
				Migration{FromEnum: f.enum, FromCode: from, ToEnum: "XP_Rechtscharakter", ToCode: to},
				Migration{FromEnum: "XP_Rechtscharakter", FromCode: to, ToEnum: f.enum, ToCode: from},
			)
		}
	}

	for _, code := range []string{"1000", "1500", "1800", "9999"} {
		ms = append(ms,
			Migration{FromEnum: "SO_Rechtscharakter", FromCode: code, ToEnum: "XP_Rechtscharakter", ToCode: code},
			Migration{FromEnum: "XP_Rechtscharakter", FromCode: code, ToEnum: "SO_Rechtscharakter", ToCode: code},
		)
	}

	return ms
}
