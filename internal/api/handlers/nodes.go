package handlers

import (
	"city-route-optimizer/internal/api/dto"
	"city-route-optimizer/internal/ports"
	"log"
	"net/http"
)

type NodeHandler struct {
	Source ports.GraphSource
}

// List returns the nodes of the current road graph in id order.
func (h *NodeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowOnly(w, r, http.MethodGet) {
		return
	}

	g, err := h.Source.LoadGraph(r.Context())
	if err != nil {
		log.Printf("load graph failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	nodes := g.Nodes()
	res := dto.ListNodeResponse{Nodes: make([]dto.NodeResponse, 0, len(nodes)), Edges: g.EdgeCount()}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, dto.NodeResponse{ID: n.ID, Name: n.Name, X: n.X, Y: n.Y})
	}

	writeJSON(w, r, http.StatusOK, res)
}
