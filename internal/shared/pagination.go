package shared

// PageRequest carries offset pagination parameters
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps page/limit to sane defaults
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 || p.Limit > 100 {
		p.Limit = 20
	}
	return p
}

// Offset returns the SQL offset for the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}
