package session

import "github.com/mamadbah2/inventory-portal/internal/domain/models"

const defaultWorkplace = "Administrative Office"

// RequireAdmin admits administrators only.
func RequireAdmin(s *models.Session) error {
	switch {
	case s == nil || s.Token == "":
		return ErrUnauthenticated
	case !s.IsAdmin():
		return ErrForbidden
	}
	return nil
}

// RequireUser admits any non-admin role.
func RequireUser(s *models.Session) error {
	switch {
	case s == nil || s.Token == "":
		return ErrUnauthenticated
	case !s.IsPortalUser():
		return ErrForbidden
	}
	return nil
}

// UserDashboard builds the greeting shown in the user area.
func UserDashboard(s models.Session) models.UserDashboard {
	d := models.UserDashboard{
		Name:      s.Name,
		Role:      s.Role,
		Email:     s.Email,
		Workplace: s.Workplace,
		Title:     "Staff Dashboard",
	}
	if s.Role == models.RoleTeacher {
		d.Title = "Faculty Dashboard"
	}
	if d.Workplace == "" {
		d.Workplace = defaultWorkplace
	}
	return d
}
