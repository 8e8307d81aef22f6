package model

// Role identifies what a principal is allowed to do. The set is closed:
// anything outside it is rejected at the door.
type Role string

const (
	RoleSuperAdmin           Role = "SuperAdmin"
	RoleAppManagerManagement Role = "AppManager_Management"
	RoleAppManagerSales      Role = "AppManager_Sales"
	RoleAppManagerFinance    Role = "AppManager_Finance"
	RoleAppManagerSupport    Role = "AppManager_Support"
	RoleSchoolAdmin          Role = "SchoolAdmin"
	RoleSchoolDataEditor     Role = "SchoolDataEditor"
	RoleSchoolFinanceManager Role = "SchoolFinanceManager"
	RoleClassTeacher         Role = "ClassTeacher"
	RoleTeacher              Role = "Teacher"
	RoleParent               Role = "Parent"
	RoleSubscriber           Role = "Subscriber"
	RoleStudentUser          Role = "Student_User"
)

// RoleFamily partitions the catalog: platform roles operate across schools,
// tenant roles are scoped to exactly one.
type RoleFamily int

const (
	FamilyUnknown RoleFamily = iota
	FamilyPlatform
	FamilyTenant
)

// roleFamilies is the authoritative family assignment. Membership is looked
// up here, never derived from the role name.
var roleFamilies = map[Role]RoleFamily{
	RoleSuperAdmin:           FamilyPlatform,
	RoleAppManagerManagement: FamilyPlatform,
	RoleAppManagerSales:      FamilyPlatform,
	RoleAppManagerFinance:    FamilyPlatform,
	RoleAppManagerSupport:    FamilyPlatform,
	RoleSchoolAdmin:          FamilyTenant,
	RoleSchoolDataEditor:     FamilyTenant,
	RoleSchoolFinanceManager: FamilyTenant,
	RoleClassTeacher:         FamilyTenant,
	RoleTeacher:              FamilyTenant,
	RoleParent:               FamilyTenant,
	RoleSubscriber:           FamilyTenant,
	RoleStudentUser:          FamilyTenant,
}

// Family returns the role's family, FamilyUnknown for roles outside the
// catalog.
func (r Role) Family() RoleFamily {
	return roleFamilies[r]
}

// Valid reports whether the role belongs to the catalog.
func (r Role) Valid() bool {
	_, ok := roleFamilies[r]
	return ok
}

// ParseRole converts a stored string into a catalog role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// AllRoles returns every role in the catalog, platform family first.
func AllRoles() []Role {
	return []Role{
		RoleSuperAdmin,
		RoleAppManagerManagement,
		RoleAppManagerSales,
		RoleAppManagerFinance,
		RoleAppManagerSupport,
		RoleSchoolAdmin,
		RoleSchoolDataEditor,
		RoleSchoolFinanceManager,
		RoleClassTeacher,
		RoleTeacher,
		RoleParent,
		RoleSubscriber,
		RoleStudentUser,
	}
}
