package domain

// PrincipalKind definition account kind resolved from the school accounts collections
type PrincipalKind string

const (
	// KindTeacher principal is a teacher account
	KindTeacher PrincipalKind = "Teacher"
	// KindParent principal is a parent account
	KindParent PrincipalKind = "Parent"
)

// Opposite chat is strictly teacher<->parent, so a message's receiver kind
// is always the opposite of the sender kind
func (k PrincipalKind) Opposite() PrincipalKind {
	if k == KindTeacher {
		return KindParent
	}
	return KindTeacher
}

// Valid check kind is one of the two account kinds
func (k PrincipalKind) Valid() bool {
	return k == KindTeacher || k == KindParent
}

// Principal the identity attached to a connection or request after the
// credential has been resolved. Immutable for the connection lifetime.
type Principal struct {
	ID          string        `json:"id"`
	Kind        PrincipalKind `json:"kind"`
	DisplayName string        `json:"displayName"`
}

// TeacherAccount document in the teachers collection (lookup only)
type TeacherAccount struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// ParentAccount document in the parents collection (lookup only)
type ParentAccount struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
}

// StudentRecord document in the students collection. Every conversation is
// scoped to one student; ParentID is used for the relationship check.
type StudentRecord struct {
	ID       string `bson:"_id"`
	Name     string `bson:"name"`
	ParentID string `bson:"parent_id"`
}
