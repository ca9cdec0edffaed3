package moderation

// Verdict is the single resolved outcome of evaluating one message. The
// zero value means no action. Verdict names double as audit event
// categories.
type Verdict string

const (
	VerdictNone        Verdict = ""
	VerdictProfanity   Verdict = "violation_profanity"
	VerdictAdvertising Verdict = "violation_ad"
	VerdictCustom      Verdict = "violation_custom"

	// EventMessageOK is the audit category for clean messages.
	EventMessageOK = "message_ok"

	neuralPrefix = "neural_"
)

// NeuralVerdict builds the verdict for a semantic detection on the given
// topic.
func NeuralVerdict(topic string) Verdict {
	return Verdict(neuralPrefix + topic)
}

var reasons = map[Verdict]string{
	VerdictProfanity:             "ненормативная лексика",
	VerdictAdvertising:           "реклама",
	VerdictCustom:                "запрещенные слова",
	NeuralVerdict("bad_words"):   "нежелательный контент (нейросеть)",
	NeuralVerdict("cars"):        "автомобильная тема (нейросеть)",
	NeuralVerdict("advertising"): "реклама (нейросеть)",
}

// Reason returns the human-readable violation reason for a verdict. An
// unmapped category falls back to a generic reason instead of failing.
func (v Verdict) Reason() string {
	if reason, ok := reasons[v]; ok {
		return reason
	}
	return "нарушение правил"
}
