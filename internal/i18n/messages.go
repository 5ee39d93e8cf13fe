// internal/i18n/messages.go
package i18n

var messages = map[Language]map[string]string{
	LangEnglish: {
		"alert.pairwise":                       "%s interacts with %s (%s): %s",
		"alert.medication":                     "%s may interact with your medication %s (%s): %s",
		"alert.contraindication.condition":     "%s is contraindicated for your health condition: %s",
		"alert.contraindication.medication":    "%s is contraindicated with your medication: %s",
		"alert.contraindication.allergy":       "%s is contraindicated due to your allergy: %s",
		"alert.contraindication.allergen":      "Potential allergic reaction risk: %s matches your allergy %s",
		"alert.contraindication.pregnancy":     "%s is contraindicated during pregnancy",
		"alert.contraindication.breastfeeding": "%s is contraindicated while breastfeeding",
		"alert.contraindication.age":           "%s is contraindicated for people over 65",
		"alert.side_effect":                    "%s may cause a severe side effect: %s",

		"rec.interaction":             "Consult a healthcare provider before combining these substances",
		"rec.interaction.competitive": "Take these supplements at least 2 hours apart",
		"rec.interaction.synergistic": "These supplements may be taken together; watch for an enhanced effect",
		"rec.interaction.beneficial":  "This combination is considered beneficial",
		"rec.contraindication":        "Avoid use or consult a healthcare provider",
		"rec.allergy":                 "Avoid use due to allergy risk",
		"rec.side_effect":             "Monitor closely for side effects and stop use if they occur",

		"warn.critical":        "%d critical safety concern(s) - immediate attention required",
		"warn.major":           "%d major safety concern(s) identified",
		"warn.cumulative":      "%d moderate-or-higher concerns together raise the overall risk",
		"warn.contraindicated": "%d supplement(s) are contraindicated for your profile and were given no dosage",
		"warn.incomplete":      "%d supplement(s) lack complete dosage data; their recommendations carry zero confidence",

		"rec.general.consult": "Consult a healthcare provider before starting a new supplement regimen",
		"rec.general.monitor": "Monitor for side effects and discontinue if adverse reactions occur",
		"rec.general.timing":  "Follow the recommended timing and food intake guidelines",
		"rec.general.urgent":  "Do not start this regimen without medical supervision",

		"adj.custom.applied":  "Custom dosage %s %s used as the midpoint of a ±10%% band",
		"adj.custom.rejected": "custom dosage overridden - outside safe bounds",
		"adj.weight":          "Body-weight scaling factor %s for %s kg (70 kg reference)",
		"adj.tier":            "Desired effect tier: %s",
		"adj.pregnancy":       "Conservative dosing during pregnancy",
		"adj.breastfeeding":   "Conservative dosing while breastfeeding",
		"adj.geriatric":       "Age over 65: renal and hepatic clearance caution",
		"adj.contraindicated": "Contraindicated (%s: %s); no dosage recommended",
		"adj.incomplete":      "Catalog dosage guideline incomplete (%s); no dosage can be recommended",

		"duration.therapeutic": "4-12 weeks",
		"duration.preventive":  "continuous use",
		"duration.optimal":     "8-16 weeks",

		"effect.preventive":  "preventive",
		"effect.therapeutic": "therapeutic",
		"effect.optimal":     "optimal",

		"severity.beneficial":      "beneficial",
		"severity.minor":           "minor",
		"severity.moderate":        "moderate",
		"severity.major":           "major",
		"severity.contraindicated": "contraindicated",
		"severity.critical":        "critical",

		"mechanism.unknown": "mechanism unknown",

		"type.synergistic":  "synergistic",
		"type.antagonistic": "antagonistic",
		"type.competitive":  "competitive",
		"type.beneficial":   "beneficial",

		"safety.safe":   "No safety concerns found for this profile",
		"safety.unsafe": "%d safety concern(s) found for this profile",
		"safety.notes":  "No safety concerns found for this profile; %d informational note(s)",
	},
	LangPolish: {
		"alert.pairwise":                       "%s wchodzi w interakcję z %s (%s): %s",
		"alert.medication":                     "%s może wchodzić w interakcję z Twoim lekiem %s (%s): %s",
		"alert.contraindication.condition":     "%s jest przeciwwskazany przy Twoim stanie zdrowia: %s",
		"alert.contraindication.medication":    "%s jest przeciwwskazany z Twoim lekiem: %s",
		"alert.contraindication.allergy":       "%s jest przeciwwskazany z powodu Twojej alergii: %s",
		"alert.contraindication.allergen":      "Ryzyko reakcji alergicznej: %s odpowiada Twojej alergii %s",
		"alert.contraindication.pregnancy":     "%s jest przeciwwskazany w czasie ciąży",
		"alert.contraindication.breastfeeding": "%s jest przeciwwskazany podczas karmienia piersią",
		"alert.contraindication.age":           "%s jest przeciwwskazany u osób powyżej 65 lat",
		"alert.side_effect":                    "%s może powodować ciężkie działanie niepożądane: %s",

		"rec.interaction":             "Skonsultuj się z lekarzem przed łączeniem tych substancji",
		"rec.interaction.competitive": "Przyjmuj suplementy w odstępie co najmniej 2 godzin",
		"rec.interaction.synergistic": "Suplementy można przyjmować razem; obserwuj nasilenie efektu",
		"rec.interaction.beneficial":  "To połączenie jest uznawane za korzystne",
		"rec.contraindication":        "Unikaj stosowania lub skonsultuj się z lekarzem",
		"rec.allergy":                 "Unikaj stosowania ze względu na ryzyko alergii",
		"rec.side_effect":             "Dokładnie obserwuj działania niepożądane i przerwij stosowanie, jeśli wystąpią",

		"warn.critical":        "Krytyczne obawy dotyczące bezpieczeństwa: %d - wymagana natychmiastowa uwaga",
		"warn.major":           "Poważne obawy dotyczące bezpieczeństwa: %d",
		"warn.cumulative":      "Obawy o umiarkowanym lub wyższym ryzyku łącznie podnoszą ogólne ryzyko (liczba: %d)",
		"warn.contraindicated": "Suplementy przeciwwskazane dla Twojego profilu, bez zalecanej dawki: %d",
		"warn.incomplete":      "Suplementy bez pełnych danych o dawkowaniu (zalecenia o zerowej pewności): %d",

		"rec.general.consult": "Skonsultuj się z lekarzem przed rozpoczęciem nowej kuracji suplementami",
		"rec.general.monitor": "Obserwuj działania niepożądane i przerwij stosowanie w przypadku reakcji negatywnych",
		"rec.general.timing":  "Przestrzegaj zalecanych godzin przyjmowania i wytycznych dotyczących posiłków",
		"rec.general.urgent":  "Nie rozpoczynaj tej kuracji bez nadzoru lekarza",

		"adj.custom.applied":  "Własna dawka %s %s użyta jako środek przedziału ±10%%",
		"adj.custom.rejected": "własna dawka odrzucona - poza bezpiecznym zakresem",
		"adj.weight":          "Współczynnik masy ciała %s dla %s kg (odniesienie 70 kg)",
		"adj.tier":            "Poziom pożądanego efektu: %s",
		"adj.pregnancy":       "Ostrożne dawkowanie w czasie ciąży",
		"adj.breastfeeding":   "Ostrożne dawkowanie podczas karmienia piersią",
		"adj.geriatric":       "Wiek powyżej 65 lat: ostrożność ze względu na klirens nerkowy i wątrobowy",
		"adj.contraindicated": "Przeciwwskazanie (%s: %s); brak zalecanej dawki",
		"adj.incomplete":      "Niepełne wytyczne dawkowania w katalogu (%s); nie można zalecić dawki",

		"duration.therapeutic": "4-12 tygodni",
		"duration.preventive":  "ciągłe stosowanie",
		"duration.optimal":     "8-16 tygodni",

		"effect.preventive":  "profilaktyczny",
		"effect.therapeutic": "terapeutyczny",
		"effect.optimal":     "optymalny",

		"severity.beneficial":      "korzystna",
		"severity.minor":           "niewielka",
		"severity.moderate":        "umiarkowana",
		"severity.major":           "poważna",
		"severity.contraindicated": "przeciwwskazanie",
		"severity.critical":        "krytyczna",

		"mechanism.unknown": "nieznany mechanizm",

		"type.synergistic":  "synergistyczna",
		"type.antagonistic": "antagonistyczna",
		"type.competitive":  "konkurencyjna",
		"type.beneficial":   "korzystna",

		"safety.safe":   "Nie stwierdzono obaw dotyczących bezpieczeństwa dla tego profilu",
		"safety.unsafe": "Obawy dotyczące bezpieczeństwa dla tego profilu: %d",
		"safety.notes":  "Nie stwierdzono obaw dotyczących bezpieczeństwa dla tego profilu; uwagi informacyjne: %d",
	},
}
