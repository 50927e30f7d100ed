package models

// Field identifies one input of the registration form. Names match the record columns.
type Field string

const (
	FieldLeaderName           Field = "leader_name"
	FieldLeaderCollege        Field = "leader_college"
	FieldLeaderPhone          Field = "leader_phone"
	FieldLeaderEmail          Field = "leader_email"
	FieldCoLeaderName         Field = "co_leader_name"
	FieldCoLeaderCollege      Field = "co_leader_college"
	FieldCoLeaderPhone        Field = "co_leader_phone"
	FieldCoLeaderEmail        Field = "co_leader_email"
	FieldCommunity            Field = "community"
	FieldCommunityOther       Field = "community_other"
	FieldSource               Field = "source"
	FieldEligibilityConfirmed Field = "eligibility_confirmed"
)

// TextFields - все текстовые поля формы, в порядке их отображения.
var TextFields = []Field{
	FieldLeaderName, FieldLeaderCollege, FieldLeaderPhone, FieldLeaderEmail,
	FieldCoLeaderName, FieldCoLeaderCollege, FieldCoLeaderPhone, FieldCoLeaderEmail,
	FieldCommunity, FieldCommunityOther, FieldSource,
}

// Text returns a pointer to the string backing a text field, or nil for
// eligibility_confirmed and unknown names.
func (f *FormState) Text(field Field) *string {
	switch field {
	case FieldLeaderName:
		return &f.Leader.Name
	case FieldLeaderCollege:
		return &f.Leader.College
	case FieldLeaderPhone:
		return &f.Leader.Phone
	case FieldLeaderEmail:
		return &f.Leader.Email
	case FieldCoLeaderName:
		return &f.CoLeader.Name
	case FieldCoLeaderCollege:
		return &f.CoLeader.College
	case FieldCoLeaderPhone:
		return &f.CoLeader.Phone
	case FieldCoLeaderEmail:
		return &f.CoLeader.Email
	case FieldCommunity:
		return &f.Community
	case FieldCommunityOther:
		return &f.CommunityOther
	case FieldSource:
		return &f.Source
	}
	return nil
}
