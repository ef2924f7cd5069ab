package network

import (
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ExportFormats lists the supported export formats.
var ExportFormats = []string{"graphml", "gexf", "json", "edgelist", "csv"}

// Export renders a graph into the given format under dir, using name as
// the file stem, and returns the written paths. The csv format produces
// a node table and an edge table; every other format is one file.
func Export(g *Graph, format, dir, name string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	writeOne := func(filename string, render func(io.Writer) error) (string, error) {
		path := filepath.Join(dir, filename)
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		if err := render(f); err != nil {
			return "", fmt.Errorf("write %s: %w", path, err)
		}
		return path, nil
	}

	switch format {
	case "graphml":
		path, err := writeOne(name+".graphml", func(w io.Writer) error { return WriteGraphML(g, w) })
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "gexf":
		path, err := writeOne(name+".gexf", func(w io.Writer) error { return WriteGEXF(g, w) })
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "json":
		path, err := writeOne(name+".json", func(w io.Writer) error { return WriteNodeLink(g, w) })
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "edgelist":
		path, err := writeOne(name+".edgelist", func(w io.Writer) error { return WriteEdgeList(g, w) })
		if err != nil {
			return nil, err
		}
		return []string{path}, nil
	case "csv":
		nodesPath, err := writeOne(name+"_nodes.csv", func(w io.Writer) error { return writeNodeCSV(g, w) })
		if err != nil {
			return nil, err
		}
		edgesPath, err := writeOne(name+"_edges.csv", func(w io.Writer) error { return writeEdgeCSV(g, w) })
		if err != nil {
			return nil, err
		}
		return []string{nodesPath, edgesPath}, nil
	}
	return nil, fmt.Errorf("unknown export format %q", format)
}

// GraphML, readable by Gephi and Cytoscape.

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

// WriteGraphML renders the graph as GraphML. Empty node attributes are
// omitted rather than written as empty elements.
func WriteGraphML(g *Graph, w io.Writer) error {
	doc := graphmlDoc{
		XMLNS: "http://graphml.graphdrawing.org/xmlns",
		Keys: []graphmlKey{
			{ID: "type", For: "node", AttrName: "type", AttrType: "string"},
			{ID: "bipartite", For: "node", AttrName: "bipartite", AttrType: "int"},
			{ID: "code", For: "node", AttrName: "code", AttrType: "string"},
			{ID: "title", For: "node", AttrName: "title", AttrType: "string"},
			{ID: "dept", For: "node", AttrName: "dept", AttrType: "string"},
			{ID: "name", For: "node", AttrName: "name", AttrType: "string"},
			{ID: "weight", For: "edge", AttrName: "weight", AttrType: "double"},
			{ID: "year", For: "edge", AttrName: "year", AttrType: "int"},
			{ID: "term", For: "edge", AttrName: "term", AttrType: "string"},
		},
	}

	doc.Graph.EdgeDefault = "undirected"
	if g.IsDirected() {
		doc.Graph.EdgeDefault = "directed"
	}

	for _, n := range g.Nodes() {
		node := graphmlNode{ID: n.ID}
		add := func(key, value string) {
			if value != "" {
				node.Data = append(node.Data, graphmlData{Key: key, Value: value})
			}
		}
		add("type", string(n.Kind))
		node.Data = append(node.Data, graphmlData{Key: "bipartite", Value: strconv.Itoa(n.Bipartite)})
		add("code", n.Code)
		add("title", n.Title)
		add("dept", n.Department)
		add("name", n.Name)
		doc.Graph.Nodes = append(doc.Graph.Nodes, node)
	}

	for _, ref := range g.Edges() {
		edge := graphmlEdge{
			Source: ref.Source,
			Target: ref.Target,
			Data: []graphmlData{
				{Key: "weight", Value: strconv.FormatFloat(ref.Edge.Weight, 'f', -1, 64)},
			},
		}
		if ref.Edge.Year != 0 {
			edge.Data = append(edge.Data, graphmlData{Key: "year", Value: strconv.Itoa(ref.Edge.Year)})
		}
		if ref.Edge.Term != "" {
			edge.Data = append(edge.Data, graphmlData{Key: "term", Value: ref.Edge.Term})
		}
		doc.Graph.Edges = append(doc.Graph.Edges, edge)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

// GEXF, readable by Gephi.

type gexfNode struct {
	ID    string `xml:"id,attr"`
	Label string `xml:"label,attr"`
}

type gexfEdge struct {
	ID     int     `xml:"id,attr"`
	Source string  `xml:"source,attr"`
	Target string  `xml:"target,attr"`
	Weight float64 `xml:"weight,attr"`
}

type gexfGraph struct {
	DefaultEdgeType string     `xml:"defaultedgetype,attr"`
	Nodes           []gexfNode `xml:"nodes>node"`
	Edges           []gexfEdge `xml:"edges>edge"`
}

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	XMLNS   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Graph   gexfGraph `xml:"graph"`
}

// WriteGEXF renders the graph as GEXF 1.2. Node labels fall back to the
// node ID when no name or code is set.
func WriteGEXF(g *Graph, w io.Writer) error {
	doc := gexfDoc{
		XMLNS:   "http://www.gexf.net/1.2draft",
		Version: "1.2",
	}
	doc.Graph.DefaultEdgeType = "undirected"
	if g.IsDirected() {
		doc.Graph.DefaultEdgeType = "directed"
	}

	for _, n := range g.Nodes() {
		label := n.Name
		if label == "" {
			label = n.Code
		}
		if label == "" {
			label = n.ID
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, gexfNode{ID: n.ID, Label: label})
	}
	for i, ref := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, gexfEdge{
			ID:     i,
			Source: ref.Source,
			Target: ref.Target,
			Weight: ref.Edge.Weight,
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	return enc.Encode(doc)
}

// NodeLink is the JSON node-link rendering of a graph.
type NodeLink struct {
	Directed   bool       `json:"directed"`
	Multigraph bool       `json:"multigraph"`
	Nodes      []Node     `json:"nodes"`
	Links      []LinkJSON `json:"links"`
}

// LinkJSON is one edge in node-link form.
type LinkJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Edge
}

// ToNodeLink converts a graph to its node-link representation, which is
// also what the network API endpoints serve.
func ToNodeLink(g *Graph) *NodeLink {
	nl := &NodeLink{Directed: g.IsDirected(), Nodes: []Node{}, Links: []LinkJSON{}}
	for _, n := range g.Nodes() {
		nl.Nodes = append(nl.Nodes, *n)
	}
	for _, ref := range g.Edges() {
		nl.Links = append(nl.Links, LinkJSON{Source: ref.Source, Target: ref.Target, Edge: *ref.Edge})
	}
	return nl
}

// WriteNodeLink renders the graph as indented node-link JSON.
func WriteNodeLink(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ToNodeLink(g))
}

// WriteEdgeList renders one "source target weight" line per edge.
func WriteEdgeList(g *Graph, w io.Writer) error {
	for _, ref := range g.Edges() {
		line := fmt.Sprintf("%s %s %s\n",
			ref.Source, ref.Target, strconv.FormatFloat(ref.Edge.Weight, 'f', -1, 64))
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeNodeCSV(g *Graph, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"node_id", "type", "bipartite", "code", "title", "dept", "name"}); err != nil {
		return err
	}
	for _, n := range g.Nodes() {
		row := []string{
			n.ID, string(n.Kind), strconv.Itoa(n.Bipartite),
			n.Code, n.Title, n.Department, n.Name,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeEdgeCSV(g *Graph, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target", "weight", "year", "term", "courses", "shared_faculty"}); err != nil {
		return err
	}
	for _, ref := range g.Edges() {
		e := ref.Edge
		year := ""
		if e.Year != 0 {
			year = strconv.Itoa(e.Year)
		}
		row := []string{
			ref.Source, ref.Target,
			strconv.FormatFloat(e.Weight, 'f', -1, 64),
			year, e.Term,
			strings.Join(e.Courses, ";"),
			strings.Join(e.SharedFaculty, ";"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
