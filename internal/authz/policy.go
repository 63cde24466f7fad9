// Package authz maps principal roles to capabilities. Evaluation is pure;
// handlers consult it per protected operation. Ownership checks (e.g. a
// manager editing only their own company's posts) layer on top elsewhere.
package authz

import (
	"github.com/ttogle918/KOCRUIT/internal/auth/domain"
)

// Capability names one permitted operation class on the job board.
type Capability string

const (
	CapReadJobPosts       Capability = "jobpost:read"
	CapWriteJobPosts      Capability = "jobpost:write"
	CapReadResumes        Capability = "resume:read"
	CapWriteResumes       Capability = "resume:write"
	CapSubmitApplications Capability = "application:submit"
	CapReviewApplications Capability = "application:review"
	CapManageCompany      Capability = "company:manage"
	CapManageUsers        Capability = "user:manage"
)

// rolePolicy is the static role→capability table. The admin superset is
// enumerated explicitly; there is no role inheritance.
var rolePolicy = map[domain.Role][]Capability{
	domain.RoleUser: {
		CapReadJobPosts,
	},
	domain.RoleMember: {
		CapReadJobPosts,
		CapReadResumes,
		CapWriteResumes,
		CapSubmitApplications,
	},
	domain.RoleManager: {
		CapReadJobPosts,
		CapWriteJobPosts,
		CapReviewApplications,
		CapManageCompany,
	},
	domain.RoleAdmin: {
		CapReadJobPosts,
		CapWriteJobPosts,
		CapReadResumes,
		CapWriteResumes,
		CapSubmitApplications,
		CapReviewApplications,
		CapManageCompany,
		CapManageUsers,
	},
}

// Can reports whether the role grants the capability.
func Can(role domain.Role, capability Capability) bool {
	for _, granted := range rolePolicy[role] {
		if granted == capability {
			return true
		}
	}
	return false
}

// Allowed returns a copy of the role's capability set.
func Allowed(role domain.Role) []Capability {
	caps := rolePolicy[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}
