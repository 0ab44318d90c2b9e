// Package query implements in-memory text search, structured filters, sorting
// and pagination over a slice of records.
package query

// Fielder is the one capability the engine needs from a record: resolving a
// dotted field path to its value.
type Fielder interface {
	Field(path string) (any, bool)
}

type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeDate    ValueType = "date"
	TypeBoolean ValueType = "boolean"
)

type Operator string

const (
	OpEquals     Operator = "equals"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpGT         Operator = "gt"
	OpLT         Operator = "lt"
	OpGTE        Operator = "gte"
	OpLTE        Operator = "lte"
	OpIn         Operator = "in"
	OpBetween    Operator = "between"
)

// Operators lists every supported filter operator.
var Operators = []Operator{
	OpEquals, OpContains, OpStartsWith, OpEndsWith,
	OpGT, OpLT, OpGTE, OpLTE, OpIn, OpBetween,
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Filter is one predicate. For OpIn the value is a list; for OpBetween a
// two-element [low, high] list. An empty Type is inferred from the field value.
type Filter struct {
	Field    string    `json:"field"`
	Operator Operator  `json:"operator"`
	Value    any       `json:"value"`
	Type     ValueType `json:"type,omitempty"`
}

type Sort struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
	Type      ValueType `json:"type,omitempty"`
}

type Page struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

type PageInfo struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// Result is the outcome of Engine.Search. TotalCount counts the matches
// before pagination.
type Result[T any] struct {
	Data       []T       `json:"data"`
	TotalCount int       `json:"totalCount"`
	SearchTerm string    `json:"searchTerm"`
	Filters    []Filter  `json:"filters"`
	Sort       *Sort     `json:"sort,omitempty"`
	Pagination *PageInfo `json:"pagination,omitempty"`
}

// Config selects the fields the free-text term is matched against.
type Config struct {
	SearchableFields []string
	CaseSensitive    bool
	// ExactMatch requires a field to equal the term instead of containing it.
	ExactMatch bool
}
