package pricing

import "strings"

// brandGenerics maps well-known brand names to their generic substitutes.
// Keys are lower case; lookups are case-insensitive. The table covers the
// common-medication roster the snapshot seeds from, not every US brand.
var brandGenerics = map[string]string{
	"lipitor":    "atorvastatin",
	"crestor":    "rosuvastatin",
	"zocor":      "simvastatin",
	"prilosec":   "omeprazole",
	"nexium":     "esomeprazole",
	"synthroid":  "levothyroxine",
	"glucophage": "metformin",
	"norvasc":    "amlodipine",
	"prinivil":   "lisinopril",
	"zestril":    "lisinopril",
	"cozaar":     "losartan",
	"zoloft":     "sertraline",
	"prozac":     "fluoxetine",
	"lexapro":    "escitalopram",
	"cymbalta":   "duloxetine",
	"wellbutrin": "bupropion",
	"plavix":     "clopidogrel",
	"coumadin":   "warfarin",
	"lasix":      "furosemide",
	"ambien":     "zolpidem",
	"xanax":      "alprazolam",
	"valium":     "diazepam",
	"neurontin":  "gabapentin",
	"deltasone":  "prednisone",
	"flonase":    "fluticasone",
	"ventolin":   "albuterol",
	"advil":      "ibuprofen",
	"motrin":     "ibuprofen",
	"tylenol":    "acetaminophen",
	"zithromax":  "azithromycin",
	"amoxil":     "amoxicillin",
	"augmentin":  "amoxicillin-clavulanate",
	"zyrtec":     "cetirizine",
	"claritin":   "loratadine",
	"allegra":    "fexofenadine",
	"januvia":    "sitagliptin",
	"ozempic":    "semaglutide",
	"eliquis":    "apixaban",
	"xarelto":    "rivaroxaban",
}

// GenericFor returns the generic substitute for a known brand name and
// whether the name was in the table.
func GenericFor(brand string) (string, bool) {
	generic, ok := brandGenerics[strings.ToLower(strings.TrimSpace(brand))]
	return generic, ok
}

// CommonMedications is the seed roster for the reference-price snapshot:
// widely prescribed generics whose NADAC rows are re-priced on a schedule.
var CommonMedications = []string{
	"atorvastatin",
	"levothyroxine",
	"lisinopril",
	"metformin",
	"amlodipine",
	"metoprolol",
	"omeprazole",
	"simvastatin",
	"losartan",
	"albuterol",
	"gabapentin",
	"sertraline",
	"hydrochlorothiazide",
	"fluoxetine",
	"escitalopram",
	"prednisone",
	"ibuprofen",
	"amoxicillin",
	"azithromycin",
	"alprazolam",
}
