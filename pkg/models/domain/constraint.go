package domain

type IctConstraint struct {
	Ict         string
	Season      string
	Description string
}

type TransConstraint struct {
	Element     string
	Season      string
	Description string
}

// NodeInfo describes high or low voltage nodes and their constraints
type NodeInfo struct {
	Nodes       string
	Season      string
	Description string
}
