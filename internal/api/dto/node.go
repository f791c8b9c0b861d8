package dto

type NodeResponse struct {
	ID   int     `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type ListNodeResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	Edges int            `json:"edge_count"`
}
