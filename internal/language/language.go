package language

import "fmt"

// Auto is the sentinel code meaning "let the backend detect the source
// language". It is the only code that does not resolve to a concrete name.
const Auto = "auto"

// codeToName maps short language codes to the human-readable names used in
// translation instructions.
var codeToName = map[string]string{
	"en":    "English",
	"fr":    "French",
	"es":    "Spanish",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"af":    "Afrikaans",
	"sq":    "Albanian",
	"am":    "Amharic",
	"ar":    "Arabic",
	"hy":    "Armenian",
	"az":    "Azerbaijani",
	"eu":    "Basque",
	"be":    "Belarusian",
	"bn":    "Bengali",
	"bs":    "Bosnian",
	"bg":    "Bulgarian",
	"ca":    "Catalan",
	"ceb":   "Cebuano",
	"co":    "Corsican",
	"hr":    "Croatian",
	"cs":    "Czech",
	"da":    "Danish",
	"nl":    "Dutch",
	"eo":    "Esperanto",
	"et":    "Estonian",
	"fi":    "Finnish",
	"fy":    "Frisian",
	"gl":    "Galician",
	"ka":    "Georgian",
	"de":    "German",
	"el":    "Greek",
	"gu":    "Gujarati",
	"ht":    "Haitian Creole",
	"ha":    "Hausa",
	"haw":   "Hawaiian",
	"he":    "Hebrew",
	"hi":    "Hindi",
	"hmn":   "Hmong",
	"hu":    "Hungarian",
	"is":    "Icelandic",
	"ig":    "Igbo",
	"id":    "Indonesian",
	"ga":    "Irish",
	"it":    "Italian",
	"jv":    "Javanese",
	"kn":    "Kannada",
	"kk":    "Kazakh",
	"km":    "Khmer",
	"rw":    "Kinyarwanda",
	"ku":    "Kurdish",
	"ky":    "Kyrgyz",
	"lo":    "Lao",
	"la":    "Latin",
	"lv":    "Latvian",
	"lt":    "Lithuanian",
	"lb":    "Luxembourgish",
	"mk":    "Macedonian",
	"mg":    "Malagasy",
	"ms":    "Malay",
	"ml":    "Malayalam",
	"mt":    "Maltese",
	"mi":    "Maori",
	"mr":    "Marathi",
	"mn":    "Mongolian",
	"my":    "Myanmar (Burmese)",
	"ne":    "Nepali",
	"no":    "Norwegian",
	"ny":    "Nyanja (Chichewa)",
	"or":    "Odia (Oriya)",
	"ps":    "Pashto",
	"fa":    "Persian",
	"pl":    "Polish",
	"pt":    "Portuguese",
	"pa":    "Punjabi",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sm":    "Samoan",
	"gd":    "Scots Gaelic",
	"sr":    "Serbian",
	"st":    "Sesotho",
	"sn":    "Shona",
	"sd":    "Sindhi",
	"si":    "Sinhala (Sinhalese)",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"so":    "Somali",
	"su":    "Sundanese",
	"sw":    "Swahili",
	"sv":    "Swedish",
	"tl":    "Tagalog (Filipino)",
	"tg":    "Tajik",
	"ta":    "Tamil",
	"tt":    "Tatar",
	"te":    "Telugu",
	"th":    "Thai",
	"tr":    "Turkish",
	"tk":    "Turkmen",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"ug":    "Uyghur",
	"uz":    "Uzbek",
	"vi":    "Vietnamese",
	"cy":    "Welsh",
	"xh":    "Xhosa",
	"yi":    "Yiddish",
	"yo":    "Yoruba",
	"zu":    "Zulu",
}

// ErrUnknownCode reports a code outside the fixed table.
type ErrUnknownCode struct {
	Code string
}

func (e *ErrUnknownCode) Error() string {
	return fmt.Sprintf("unknown language code: %q", e.Code)
}

// Resolve returns the human-readable name for a language code. The Auto
// sentinel is not resolvable; check for it before calling.
func Resolve(code string) (string, error) {
	name, ok := codeToName[code]
	if !ok {
		return "", &ErrUnknownCode{Code: code}
	}
	return name, nil
}

// IsKnown reports whether the code resolves or is the Auto sentinel.
func IsKnown(code string) bool {
	if code == Auto {
		return true
	}
	_, ok := codeToName[code]
	return ok
}
