package repositories

import (
	"city-route-optimizer/internal/domain"
	"city-route-optimizer/internal/graph"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CSV-backed implementation of the GraphSource port.
//
// nodes.csv needs columns id,name,x,y; edges.csv needs source,target,distance_km,speed_kmh;
// deliveries.csv needs node_id and may carry a cluster column from an external clustering step.
type CSVGraphSource struct {
	NodesPath      string
	EdgesPath      string
	DeliveriesPath string
}

func NewCSVGraphSource(nodesPath, edgesPath, deliveriesPath string) *CSVGraphSource {
	return &CSVGraphSource{NodesPath: nodesPath, EdgesPath: edgesPath, DeliveriesPath: deliveriesPath}
}

type csvTable struct {
	path   string
	header map[string]int
	rows   [][]string
}

func readCSV(path string, required ...string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	head, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %q: missing header", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %q: header: %w", path, err)
	}

	t := &csvTable{path: path, header: make(map[string]int, len(head))}
	for i, h := range head {
		t.header[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range required {
		if _, ok := t.header[col]; !ok {
			return nil, fmt.Errorf("read %q: missing column %q", path, col)
		}
	}

	t.rows, err = r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return t, nil
}

func (t *csvTable) has(col string) bool {
	_, ok := t.header[col]
	return ok
}

func (t *csvTable) str(row []string, col string) string {
	i, ok := t.header[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (t *csvTable) intCol(row []string, line int, col string) (int, error) {
	s := t.str(row, col)
	// Identifiers exported by dataframe tools sometimes carry a ".0" suffix.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), nil
	}
	return 0, fmt.Errorf("%s line %d: invalid %s %q", t.path, line, col, s)
}

func (t *csvTable) floatCol(row []string, line int, col string) (float64, error) {
	s := t.str(row, col)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: invalid %s %q: %w", t.path, line, col, s, err)
	}
	return v, nil
}

// Build the weighted graph from the nodes and edges files.
func (s *CSVGraphSource) LoadGraph(ctx context.Context) (*graph.WeightedGraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	nodes, err := readCSV(s.NodesPath, "id", "x", "y")
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	edges, err := readCSV(s.EdgesPath, "source", "target", "distance_km", "speed_kmh")
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}

	g := graph.New()
	for i, row := range nodes.rows {
		line := i + 2
		id, err := nodes.intCol(row, line, "id")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		x, err := nodes.floatCol(row, line, "x")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		y, err := nodes.floatCol(row, line, "y")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		if err := g.AddNode(domain.Node{ID: id, Name: nodes.str(row, "name"), X: x, Y: y}); err != nil {
			return nil, fmt.Errorf("load graph: %s line %d: %w", nodes.path, line, err)
		}
	}

	for i, row := range edges.rows {
		line := i + 2
		src, err := edges.intCol(row, line, "source")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		dst, err := edges.intCol(row, line, "target")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		dist, err := edges.floatCol(row, line, "distance_km")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		speed, err := edges.floatCol(row, line, "speed_kmh")
		if err != nil {
			return nil, fmt.Errorf("load graph: %w", err)
		}
		if err := g.AddEdge(domain.NewEdge(src, dst, dist, speed)); err != nil {
			return nil, fmt.Errorf("load graph: %s line %d: %w", edges.path, line, err)
		}
	}

	return g, nil
}

// Return delivery stops in file order.
func (s *CSVGraphSource) ListDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t, err := readCSV(s.DeliveriesPath, "node_id")
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}

	withCluster := t.has("cluster")
	out := make([]domain.Delivery, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		id, err := t.intCol(row, line, "node_id")
		if err != nil {
			return nil, fmt.Errorf("list deliveries: %w", err)
		}

		d := domain.Delivery{NodeID: id}
		if withCluster && t.str(row, "cluster") != "" {
			c, err := t.intCol(row, line, "cluster")
			if err != nil {
				return nil, fmt.Errorf("list deliveries: %w", err)
			}
			d.ClusterID = &c
		}
		out = append(out, d)
	}

	return out, nil
}
