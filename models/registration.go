package models

// RegistrationsTable - таблица, в которую пишется каждая успешная регистрация.
const RegistrationsTable = "registrations"

// CommunityOther - значение community, при котором требуется community_other.
const CommunityOther = "Others / Not Affiliated"

var Communities = []string{
	"Cybrian",
	"Rootsprout",
	"Codesapiens",
	"Ai geeks",
	"Flutterflow",
	CommunityOther,
}

var Sources = []string{
	"Instagram",
	"LinkedIn",
	"WhatsApp/Telegram Group",
	"College Representative",
	"Friend/Word of Mouth",
	"Other Social Platform",
}

func IsCommunity(v string) bool { return contains(Communities, v) }

func IsSource(v string) bool { return contains(Sources, v) }

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Member - контактные данные лидера или со-лидера команды.
type Member struct {
	Name    string `json:"name"`
	College string `json:"college"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// FormState хранит всё, что пользователь ввёл в форму за время одного просмотра страницы.
// Нулевое значение - пустая форма.
type FormState struct {
	Leader               Member `json:"leader"`
	CoLeader             Member `json:"co_leader"`
	Community            string `json:"community"`
	CommunityOther       string `json:"community_other"`
	Source               string `json:"source"`
	EligibilityConfirmed bool   `json:"eligibility_confirmed"`
}

// Registration is the row written to RegistrationsTable.
type Registration struct {
	LeaderName           string  `json:"leader_name"`
	LeaderCollege        string  `json:"leader_college"`
	LeaderPhone          string  `json:"leader_phone"`
	LeaderEmail          string  `json:"leader_email"`
	CoLeaderName         string  `json:"co_leader_name"`
	CoLeaderCollege      string  `json:"co_leader_college"`
	CoLeaderPhone        string  `json:"co_leader_phone"`
	CoLeaderEmail        string  `json:"co_leader_email"`
	Community            string  `json:"community"`
	CommunityOther       *string `json:"community_other"`
	Source               string  `json:"source"`
	EligibilityConfirmed bool    `json:"eligibility_confirmed"`
}
