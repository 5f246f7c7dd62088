package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionTranscriptsRead allows viewing and downloading transcripts.
	PermissionTranscriptsRead Permission = "transcripts:read"

	// PermissionGradesRead allows viewing the grades recorded for an enrollment.
	PermissionGradesRead Permission = "grades:read"

	// PermissionGradesWrite allows changing which subjects an enrollment is graded in.
	PermissionGradesWrite Permission = "grades:write"

	// PermissionSubjectsRead allows viewing subjects.
	PermissionSubjectsRead Permission = "subjects:read"
)

// AllPermissions lists every permission known to the service.
var AllPermissions = []Permission{
	PermissionTranscriptsRead,
	PermissionGradesRead,
	PermissionGradesWrite,
	PermissionSubjectsRead,
}

// PermissionStrings returns the permission codes as plain strings.
func PermissionStrings(perms []Permission) []string {
	out := make([]string, len(perms))
	for i, p := range perms {
		out[i] = string(p)
	}
	return out
}
