package catalog

import "github.com/diwise/xplan-gml/pkg/xplan/version"

var (
	only53 = version.Only(version.V5_3)
	only60 = version.Only(version.V6_0)
)

func text(name string) Member { return Member{Name: name, Kind: KindText} }
func textList(name string) Member { return Member{Name: name, Kind: KindTextList} }
func integer(name string) Member { return Member{Name: name, Kind: KindInteger} }
func number(name string) Member { return Member{Name: name, Kind: KindNumber} }
func boolean(name string) Member { return Member{Name: name, Kind: KindBool} }
func date(name string) Member { return Member{Name: name, Kind: KindDate} }
func dateList(name string) Member { return Member{Name: name, Kind: KindDateList} }
func geometry(name string) Member { return Member{Name: name, Kind: KindGeometry} }
func binary(name string) Member { return Member{Name: name, Kind: KindBinary, Transient: true} }
func enum(name, e string) Member { return Member{Name: name, Kind: KindEnum, Enum: e} }
func enumList(name, e string) Member { return Member{Name: name, Kind: KindEnumList, Enum: e} }

func measure(name, uom string) Member {
	return Member{Name: name, Kind: KindNumber, UoM: uom}
}

func compose(name, target string) Member {
	return Member{Name: name, Kind: KindComposition, Target: target}
}

func composeMany(name, target string) Member {
	return Member{Name: name, Kind: KindComposition, Target: target, Many: true}
}

func link(name, target string) Member {
	return Member{Name: name, Kind: KindReference, Target: target}
}

func linkMany(name, target string) Member {
	return Member{Name: name, Kind: KindReference, Target: target, Many: true}
}

func (m Member) in(mask version.Mask) Member {
	m.Mask = mask
	return m
}

func (m Member) wire(name string) Member {
	m.WireName = name
	return m
}

func (m Member) required() Member {
	m.Required = true
	return m
}

func (m Member) inverse() Member {
	m.Inverse = true
	return m
}

// members common to the concrete plan types of all families
func planAuthorities() []Member {
	return []Member{
		composeMany("gemeinde", "XP_Gemeinde").required(),
		compose("plangeber", "XP_Plangeber"),
	}
}

func versionBauNVO() []Member {
	return []Member{
		compose("versionBauNVO", "XP_GesetzlicheGrundlage").in(only60),
		compose("versionBauGB", "XP_GesetzlicheGrundlage").in(only60),
	}
}

func versionBauNVOLegacy() []Member {
	return []Member{
		date("versionBauNVODatum").in(only53),
		text("versionBauNVOText").in(only53),
		date("versionBauGBDatum").in(only53),
		text("versionBauGBText").in(only53),
	}
}

func definitions() []TypeInfo {
	return []TypeInfo{
		// plans
		{Name: "XP_Plan", Root: RootPlan, Abstract: true, Geometry: GeometryPolygon, Members: []Member{
			text("name").required(),
			text("nummer"),
			text("internalId"),
			text("beschreibung"),
			text("kommentar"),
			date("technHerstellDatum"),
			date("genehmigungsDatum"),
			date("untergangsDatum"),
			text("technischerPlanersteller").in(only60),
			integer("erstellungsMassstab"),
			measure("bezugshoehe", "m").in(only53),
			geometry("raeumlicherGeltungsbereich").required(),
			composeMany("verfahrensMerkmale", "XP_VerfahrensMerkmal"),
			composeMany("externeReferenz", "XP_SpezExterneReferenz"),
			linkMany("bereich", "XP_Bereich"),
		}},
		{Name: "BP_Plan", Parent: "XP_Plan", Root: RootPlan, Members: concat(
			planAuthorities(),
			[]Member{
				enumList("planArt", "BP_PlanArt").required(),
				enum("verfahren", "BP_Verfahren"),
				enum("rechtsstand", "BP_Rechtsstand"),
				date("aufstellungsbeschlussDatum"),
				boolean("veraenderungssperre").in(only53),
				date("veraenderungssperreBeschlussDatum").in(only53),
				date("veraenderungssperreDatum").in(only53),
				date("veraenderungssperreEndDatum").in(only53),
				composeMany("veraenderungssperreDaten", "BP_VeraenderungssperreDaten").wire("veraenderungssperre").in(only60),
				dateList("auslegungsStartDatum"),
				dateList("auslegungsEndDatum"),
				dateList("traegerbeteiligungsStartDatum"),
				dateList("traegerbeteiligungsEndDatum"),
				date("satzungsbeschlussDatum"),
				date("inkrafttretensDatum"),
				boolean("durchfuehrungsVertrag"),
				boolean("staedtebaulicherVertrag"),
				boolean("erschliessungsVertrag"),
			},
			versionBauNVO(),
		)},
		{Name: "FP_Plan", Parent: "XP_Plan", Root: RootPlan, Members: concat(
			planAuthorities(),
			[]Member{
				enum("planArt", "FP_PlanArt").required(),
				enum("rechtsstand", "FP_Rechtsstand"),
				date("aufstellungsbeschlussDatum"),
				dateList("auslegungsStartDatum"),
				dateList("auslegungsEndDatum"),
				date("planbeschlussDatum"),
				date("wirksamkeitsDatum"),
			},
			versionBauNVO(),
		)},
		{Name: "SO_Plan", Parent: "XP_Plan", Root: RootPlan, Members: concat(
			planAuthorities(),
			[]Member{
				enum("planArt", "SO_PlanArt").required(),
			},
		)},

		// regions
		{Name: "XP_Bereich", Root: RootRegion, Abstract: true, Geometry: GeometryPolygon, Members: []Member{
			integer("nummer").required(),
			text("name"),
			enum("bedeutung", "XP_BedeutungenBereich"),
			text("detaillierteBedeutung"),
			integer("erstellungsMassstab"),
			geometry("geltungsbereich"),
			composeMany("refScan", "XP_ExterneReferenz"),
			linkMany("planinhalt", "XP_Objekt"),
			linkMany("praesentationsobjekt", "XP_AbstraktesPraesentationsobjekt"),
			link("gehoertZuPlan", "XP_Plan").inverse(),
		}},
		{Name: "BP_Bereich", Parent: "XP_Bereich", Root: RootRegion, Members: versionBauNVOLegacy()},
		{Name: "FP_Bereich", Parent: "XP_Bereich", Root: RootRegion, Members: versionBauNVOLegacy()},
		{Name: "SO_Bereich", Parent: "XP_Bereich", Root: RootRegion},

		// plan contents
		{Name: "XP_Objekt", Root: RootContent, Abstract: true, Members: []Member{
			text("uuid"),
			text("text"),
			enum("rechtsstand", "XP_Rechtsstand"),
			compose("gesetzlicheGrundlage", "XP_GesetzlicheGrundlage"),
			text("gliederung1"),
			text("gliederung2"),
			integer("ebene"),
			composeMany("hoehenangabe", "XP_Hoehenangabe"),
			composeMany("externeReferenz", "XP_SpezExterneReferenz"),
			link("gehoertZuBereich", "XP_Bereich").inverse(),
			linkMany("wirdDargestelltDurch", "XP_AbstraktesPraesentationsobjekt"),
			enum("rechtscharakter", "XP_Rechtscharakter").in(only60).required(),
			text("aufschrift").in(only60),
		}},
		{Name: "BP_Objekt", Parent: "XP_Objekt", Root: RootContent, Abstract: true, Members: []Member{
			enum("rechtscharakter", "BP_Rechtscharakter").in(only53).required(),
		}},
		{Name: "BP_Flaechenobjekt", Parent: "BP_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryPolygon, Members: []Member{
			geometry("position").required(),
			boolean("flaechenschluss").required(),
		}},
		{Name: "BP_Linienobjekt", Parent: "BP_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryLine, Members: []Member{
			geometry("position").required(),
		}},
		{Name: "BP_Punktobjekt", Parent: "BP_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryPoint, Members: []Member{
			geometry("position").required(),
			measure("nordwinkel", "grad"),
		}},
		{Name: "BP_Geometrieobjekt", Parent: "BP_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryMixed, Members: []Member{
			geometry("position").required(),
			boolean("flaechenschluss"),
		}},
		{Name: "BP_BaugebietsTeilFlaeche", Parent: "BP_Flaechenobjekt", Root: RootContent, Members: []Member{
			number("GFZ"),
			number("GRZ"),
			integer("Z"),
			enum("bauweise", "XP_Bauweise"),
			enum("allgArtDerBaulNutzung", "XP_AllgArtDerBaulNutzung"),
			enum("besondereArtDerBaulNutzung", "XP_BesondereArtDerBaulNutzung"),
			enumList("sondernutzung", "XP_Sondernutzungen").in(only53),
			composeMany("sondernutzungKomplex", "BP_KomplexeSondernutzung").wire("sondernutzung").in(only60),
			text("nutzungText"),
			text("abweichungText").in(only53),
		}},
		{Name: "BP_UeberbaubareGrundstuecksFlaeche", Parent: "BP_Flaechenobjekt", Root: RootContent, Members: []Member{
			number("GFZ"),
			number("GRZ"),
			integer("Z"),
			enum("bauweise", "XP_Bauweise"),
			integer("geschossMin"),
			integer("geschossMax"),
		}},
		{Name: "BP_StrassenVerkehrsFlaeche", Parent: "BP_Flaechenobjekt", Root: RootContent, Members: []Member{
			enum("nutzungsform", "XP_Nutzungsform"),
			integer("Z"),
		}},
		{Name: "BP_GruenFlaeche", Parent: "BP_Flaechenobjekt", Root: RootContent, Members: []Member{
			enumList("zweckbestimmung", "XP_ZweckbestimmungGruen"),
			enum("nutzungsform", "XP_Nutzungsform"),
			number("GRZ"),
		}},
		{Name: "BP_BauGrenze", Parent: "BP_Linienobjekt", Root: RootContent, Members: []Member{
			measure("bautiefe", "m"),
			integer("geschossMin"),
			integer("geschossMax"),
		}},
		{Name: "BP_BauLinie", Parent: "BP_Linienobjekt", Root: RootContent, Members: []Member{
			measure("bautiefe", "m"),
			measure("ausnahmeBautiefe", "m").in(only53),
			integer("geschossMin"),
			integer("geschossMax"),
		}},
		{Name: "BP_EinfahrtPunkt", Parent: "BP_Punktobjekt", Root: RootContent, Members: []Member{
			enum("typ", "BP_EinfahrtTypen"),
		}},
		{Name: "BP_AnpflanzungBindungErhaltung", Parent: "BP_Geometrieobjekt", Root: RootContent, Members: []Member{
			enum("massnahme", "XP_ABEMassnahmenTypen"),
			enumList("gegenstand", "XP_AnpflanzungBindungErhaltungsGegenstand"),
			measure("kronendurchmesser", "m"),
			measure("pflanztiefe", "m"),
			measure("mindesthoehe", "m"),
			integer("anzahl"),
		}},
		{Name: "FP_Objekt", Parent: "XP_Objekt", Root: RootContent, Abstract: true, Members: []Member{
			enum("rechtscharakter", "FP_Rechtscharakter").in(only53).required(),
			boolean("vonGenehmigungAusgenommen"),
		}},
		{Name: "FP_Flaechenobjekt", Parent: "FP_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryPolygon, Members: []Member{
			geometry("position").required(),
			boolean("flaechenschluss").required(),
		}},
		{Name: "FP_Geometrieobjekt", Parent: "FP_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryMixed, Members: []Member{
			geometry("position").required(),
			boolean("flaechenschluss"),
		}},
		{Name: "FP_BebauungsFlaeche", Parent: "FP_Flaechenobjekt", Root: RootContent, Members: []Member{
			number("GFZ"),
			enum("allgArtDerBaulNutzung", "XP_AllgArtDerBaulNutzung"),
			enum("besondereArtDerBaulNutzung", "XP_BesondereArtDerBaulNutzung"),
			enumList("sonderNutzung", "XP_Sondernutzungen").in(only53),
			composeMany("sondernutzungKomplex", "FP_KomplexeSondernutzung").wire("sondernutzung").in(only60),
			text("nutzungText"),
		}},
		{Name: "FP_Gruen", Parent: "FP_Geometrieobjekt", Root: RootContent, Members: []Member{
			enumList("zweckbestimmung", "XP_ZweckbestimmungGruen"),
			enum("nutzungsform", "XP_Nutzungsform"),
		}},
		{Name: "SO_Objekt", Parent: "XP_Objekt", Root: RootContent, Abstract: true, Members: []Member{
			enum("rechtscharakter", "SO_Rechtscharakter").in(only53).required(),
		}},
		{Name: "SO_Geometrieobjekt", Parent: "SO_Objekt", Root: RootContent, Abstract: true, Geometry: GeometryMixed, Members: []Member{
			geometry("position").required(),
			boolean("flaechenschluss"),
		}},
		{Name: "SO_SchutzgebietWasserrecht", Parent: "SO_Geometrieobjekt", Root: RootContent, Members: []Member{
			enum("artDerFestlegung", "SO_KlassifizSchutzgebietWasserrecht"),
			enum("zone", "SO_SchutzzonenWasserrecht"),
			text("name"),
			text("nummer"),
		}},

		// presentation objects
		{Name: "XP_AbstraktesPraesentationsobjekt", Root: RootPresentation, Abstract: true, Members: []Member{
			text("stylesheetId"),
			integer("darstellungsprioritaet"),
			textList("art"),
			link("gehoertZuBereich", "XP_Bereich").inverse(),
			link("dientZurDarstellungVon", "XP_Objekt").inverse(),
		}},
		{Name: "XP_PPO", Parent: "XP_AbstraktesPraesentationsobjekt", Root: RootPresentation, Geometry: GeometryPoint, Members: []Member{
			geometry("position").required(),
			measure("drehwinkel", "grad"),
			number("skalierung"),
		}},
		{Name: "XP_PTO", Parent: "XP_AbstraktesPraesentationsobjekt", Root: RootPresentation, Geometry: GeometryPoint, Members: []Member{
			text("schriftinhalt"),
			number("fontSperrung"),
			number("skalierung"),
			enum("horizontaleAusrichtung", "XP_HorizontaleAusrichtung"),
			enum("vertikaleAusrichtung", "XP_VertikaleAusrichtung"),
			geometry("position").required(),
			measure("drehwinkel", "grad"),
		}},
		{Name: "XP_Nutzungsschablone", Parent: "XP_PTO", Root: RootPresentation, Members: []Member{
			integer("spaltenAnz").required(),
			integer("zeilenAnz").required(),
		}},

		// data types
		{Name: "XP_ExterneReferenz", Root: RootData, Members: []Member{
			text("georefURL"),
			enum("art", "XP_ExterneReferenzArt"),
			text("informationssystemURL").in(only53),
			text("referenzName"),
			text("referenzURL"),
			text("referenzMimeType"),
			text("beschreibung"),
			date("datum"),
			binary("file"),
		}},
		{Name: "XP_SpezExterneReferenz", Parent: "XP_ExterneReferenz", Root: RootData, Members: []Member{
			enum("typ", "XP_ExterneReferenzTyp").required(),
		}},
		{Name: "XP_Gemeinde", Root: RootData, Shared: true, Members: []Member{
			text("ags"),
			text("rs"),
			text("gemeindeName"),
			text("ortsteilName"),
		}},
		{Name: "XP_Plangeber", Root: RootData, Shared: true, Members: []Member{
			text("name").required(),
			text("kennziffer"),
		}},
		{Name: "XP_GesetzlicheGrundlage", Root: RootData, Shared: true, Members: []Member{
			text("name"),
			text("detail"),
			date("ausfertigungDatum"),
			date("letzteBekanntmDatum"),
			date("letzteAenderungDatum"),
		}},
		{Name: "XP_VerfahrensMerkmal", Root: RootData, Members: []Member{
			text("vermerk").required(),
			date("datum").required(),
			text("signatur").required(),
			boolean("signiert").required(),
		}},
		{Name: "XP_Hoehenangabe", Root: RootData, Members: []Member{
			text("abweichenderHoehenbezug"),
			enum("hoehenbezug", "XP_ArtHoehenbezug"),
			text("abweichenderBezugspunkt"),
			enum("bezugspunkt", "XP_ArtHoehenbezugspunkt"),
			measure("hMin", "m"),
			measure("hMax", "m"),
			measure("hZwingend", "m"),
			measure("h", "m"),
		}},
		{Name: "BP_VeraenderungssperreDaten", Root: RootData, Members: []Member{
			date("startDatum").required(),
			date("endDatum").required(),
			enum("verlaengerung", "XP_VerlaengerungVeraenderungssperre").required(),
			date("beschlussDatum"),
			compose("refBeschluss", "XP_ExterneReferenz"),
		}},
		{Name: "BP_KomplexeSondernutzung", Root: RootData, Members: []Member{
			enum("allgemein", "XP_Sondernutzungen").required(),
			text("nutzungText"),
			text("aufschrift"),
		}},
		{Name: "FP_KomplexeSondernutzung", Root: RootData, Members: []Member{
			enum("allgemein", "XP_Sondernutzungen").required(),
			text("nutzungText"),
			text("aufschrift"),
		}},
	}
}

func concat(groups ...[]Member) []Member {
	result := []Member{}
	for _, g := range groups {
		result = append(result, g...)
	}
	return result
}
