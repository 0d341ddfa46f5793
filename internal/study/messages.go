package study

type messageKey int

const (
	msgTokenizerUnavailable messageKey = iota
	msgTokenizeFailed
)

var notifications = map[string]map[messageKey]string{
	"en": {
		msgTokenizerUnavailable: "Study mode: the dictionary is still loading, skipping this line.",
		msgTokenizeFailed:       "Study mode: could not analyse this line, skipping it.",
	},
	"ja": {
		msgTokenizerUnavailable: "学習モード：辞書を読み込み中のため、この行をスキップします。",
		msgTokenizeFailed:       "学習モード：この行を解析できなかったため、スキップします。",
	},
}

func message(locale string, key messageKey) string {
	if m, ok := notifications[locale]; ok {
		return m[key]
	}
	return notifications["en"][key]
}
