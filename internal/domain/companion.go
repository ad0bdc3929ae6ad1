package domain

type Personality string

const (
	PersonalityFriendly     Personality = "friendly"
	PersonalityProfessional Personality = "professional"
	PersonalityCasual       Personality = "casual"
	PersonalityEmpathetic   Personality = "empathetic"
)

var Personalities = []Personality{
	PersonalityFriendly,
	PersonalityProfessional,
	PersonalityCasual,
	PersonalityEmpathetic,
}

func IsPersonality(p string) bool {
	for _, known := range Personalities {
		if string(known) == p {
			return true
		}
	}
	return false
}

type CompanionStatus struct {
	Active        bool          `json:"active"`
	Personality   Personality   `json:"personality"`
	DelayMillis   int           `json:"delay"`
	Personalities []Personality `json:"personalities"`
}

type CompanionReply struct {
	Responded   bool        `json:"responded"`
	Response    string      `json:"response,omitempty"`
	Personality Personality `json:"personality"`
	DelayMillis int         `json:"delay"`
}

type NotificationConfig struct {
	Enabled  bool     `json:"enabled"`
	Endpoint string   `json:"endpoint,omitempty"`
	Topics   []string `json:"topics"`
}
