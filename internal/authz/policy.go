// AngelaMos | 2026
// policy.go

package authz

// Section is an area of the admin console gated as a whole.
type Section string

const (
	SectionDashboard     Section = "dashboard"
	SectionUsers         Section = "users"
	SectionTeams         Section = "teams"
	SectionEvents        Section = "events"
	SectionEventTypes    Section = "event_types"
	SectionSeasons       Section = "seasons"
	SectionRelationships Section = "relationships"
	SectionFamily        Section = "family"
	SectionMessages      Section = "messages"
	SectionStats         Section = "stats"
)

type Resource string

const (
	ResourceUser         Resource = "user"
	ResourceTeam         Resource = "team"
	ResourceEvent        Resource = "event"
	ResourceEventType    Resource = "event_type"
	ResourceEventLog     Resource = "event_log"
	ResourceSeason       Resource = "season"
	ResourceRelationship Resource = "relationship"
	ResourceFamilyMember Resource = "family_member"
	ResourceMessage      Resource = "message"
)

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

type Permission struct {
	Resource Resource
	Action   Action
}

var everyone = []Role{RoleMentor, RoleMentee, RoleGuardian, RoleVolunteer}

// NavigationMatrix lists the non-superuser roles that may open a console
// section. Superusers may open every section.
var NavigationMatrix = map[Section][]Role{
	SectionDashboard:     {RoleMentor, RoleVolunteer},
	SectionUsers:         {},
	SectionTeams:         {RoleMentor},
	SectionEvents:        {RoleMentor, RoleVolunteer},
	SectionEventTypes:    {},
	SectionSeasons:       {},
	SectionRelationships: {RoleMentor},
	SectionFamily:        {},
	SectionMessages:      everyone,
	SectionStats:         {},
}

// PermissionMatrix lists the non-superuser roles allowed each action.
// Missing entries deny.
var PermissionMatrix = map[Permission][]Role{
	{ResourceUser, ActionView}: {RoleMentor},

	{ResourceTeam, ActionView}: everyone,

	{ResourceEvent, ActionView}:   everyone,
	{ResourceEvent, ActionCreate}: {RoleMentor},
	{ResourceEvent, ActionEdit}:   {RoleMentor},

	{ResourceEventType, ActionView}: everyone,

	{ResourceEventLog, ActionView}:   {RoleMentor, RoleVolunteer},
	{ResourceEventLog, ActionCreate}: {RoleMentor, RoleVolunteer},

	{ResourceSeason, ActionView}: everyone,

	{ResourceRelationship, ActionView}:   {RoleMentor},
	{ResourceRelationship, ActionCreate}: {RoleMentor},
	{ResourceRelationship, ActionEdit}:   {RoleMentor},
	{ResourceRelationship, ActionDelete}: {RoleMentor},

	{ResourceFamilyMember, ActionView}: {RoleGuardian},

	{ResourceMessage, ActionView}:   everyone,
	{ResourceMessage, ActionCreate}: everyone,
}

// IsSuperuser is true for holders of a staff profile. Admin is a staff
// permission level, so every admin is also a superuser.
func IsSuperuser(p *Principal) bool {
	return HasRole(p, RoleStaff)
}

// IsAdmin is true only for staff at the admin permission level.
func IsAdmin(p *Principal) bool {
	return HasRole(p, RoleAdmin)
}

func CanAccessNavigation(p *Principal, section Section) bool {
	if p == nil {
		return false
	}
	if IsSuperuser(p) {
		return true
	}
	return hasAny(p, NavigationMatrix[section])
}

func CanPerform(p *Principal, action Action, resource Resource) bool {
	if p == nil {
		return false
	}
	if IsSuperuser(p) {
		return true
	}
	return hasAny(p, PermissionMatrix[Permission{Resource: resource, Action: action}])
}

// MentorRelationship is the relationship type whose user side is the mentor.
const MentorRelationship = "mentor"

// RelationshipRef is the part of a user relationship the policy inspects.
type RelationshipRef struct {
	UserID           string
	RelatedUserID    string
	RelationshipType string
}

// CanModifyRelationship allows superusers, and mentors acting on their own
// mentor links.
func CanModifyRelationship(p *Principal, rel RelationshipRef) bool {
	if p == nil {
		return false
	}
	if IsSuperuser(p) {
		return true
	}
	return HasRole(p, RoleMentor) &&
		rel.RelationshipType == MentorRelationship &&
		rel.UserID == p.UserID
}

func CanManageFamily(p *Principal) bool {
	return IsSuperuser(p)
}

// CanReadThread allows participants of a thread and superusers.
func CanReadThread(p *Principal, participants []string) bool {
	if p == nil {
		return false
	}
	if IsSuperuser(p) {
		return true
	}
	for _, id := range participants {
		if id == p.UserID {
			return true
		}
	}
	return false
}
