package model

// QueryCategory is the coarse semantic bucket assigned to a query before
// routing. It drives retrieval boosting and initial framing.
type QueryCategory string

const (
	CategoryGeneral  QueryCategory = "general"
	CategoryMedical  QueryCategory = "medical"
	CategoryVacation QueryCategory = "vacation"
	CategoryAction   QueryCategory = "action"
)

// String returns the string representation of the category.
func (c QueryCategory) String() string {
	return string(c)
}

// RouteDecision is the handling branch chosen for one query.
type RouteDecision string

const (
	RouteRetrieve RouteDecision = "retrieve"
	RouteTool     RouteDecision = "tool"
	RouteGeneral  RouteDecision = "general"
)

// String returns the string representation of the decision.
func (d RouteDecision) String() string {
	return string(d)
}
