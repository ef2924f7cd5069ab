package models

// Record is one parsed enrollment row in canonical form, independent of
// the source file's schema era. The base fields are always set (possibly
// to the empty string); numeric fields are nil when the source cell was
// empty or unparseable. Extended fields stay zero-valued for eras that
// do not carry them.
type Record struct {
	Department   string `json:"department"`
	CourseNumber string `json:"course_number"`
	Section      string `json:"section"`
	Title        string `json:"title"`
	Instructor   string `json:"instructor"`
	Enrollment   *int   `json:"enrollment,omitempty"`
	Capacity     *int   `json:"capacity,omitempty"`
	CRN          string `json:"crn"`
	Term         string `json:"term"`
	Year         int    `json:"year"`

	// Middle and new era columns.
	NetID string `json:"netid,omitempty"`
	Email string `json:"email,omitempty"`

	// New era columns.
	PartOfTerm string `json:"ptrm,omitempty"`
	Attributes string `json:"attr,omitempty"`
	CollCode   string `json:"coll_code,omitempty"`
	TrueMax    *int   `json:"true_max,omitempty"`
	GPInd      string `json:"gp_ind,omitempty"`
	Fees       string `json:"fees,omitempty"`
	XListings  string `json:"xlistings,omitempty"`

	Waitlist *int `json:"waitlist,omitempty"`
}
