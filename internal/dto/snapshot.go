package dto

// SnapshotQuery captures GET /snapshots/:domain query parameters.
type SnapshotQuery struct {
	Year    int    `form:"year" validate:"omitempty,min=2000,max=2100"`
	Month   int    `form:"month" validate:"omitempty,min=1,max=12"`
	Sort    string `form:"sort" validate:"omitempty,oneof=date weight grade day"`
	Reverse bool   `form:"reverse"`
}

// AverageQuery captures GET /grades/average query parameters.
type AverageQuery struct {
	Subject string `form:"subject" validate:"required"`
}
