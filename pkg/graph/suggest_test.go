package graph

import (
	"reflect"
	"strings"
	"testing"
)

// chainGraph builds a -> b -> c where a references b and b references c.
func chainGraph() *Graph {
	g := New()
	g.AddTableNode("a", newTestNode("id", "b_id", "label"))
	g.AddTableNode("b", newTestNode("id", "c_id"))
	g.AddTableNode("c", newTestNode("id", "name"))
	g.AddReferenceEdge("a", "b", "b_id", "id")
	g.AddReferenceEdge("b", "c", "c_id", "id")
	return g
}

func TestSuggestJoins_TwoTables(t *testing.T) {
	g := airportsGraph()

	suggestion := g.SuggestJoins([]string{"wan", "airports"}, DefaultMaxJoinDepth)
	if suggestion == nil {
		t.Fatal("expected a suggestion")
	}

	if !reflect.DeepEqual(suggestion.JoinOrder, []string{"wan", "airports"}) {
		t.Errorf("unexpected join order: %v", suggestion.JoinOrder)
	}
	if len(suggestion.Joins) != 1 {
		t.Fatalf("expected one join step, got %+v", suggestion.Joins)
	}
	if !reflect.DeepEqual(suggestion.TableColumns["airports"], []string{"APT_ID", "NAME"}) {
		t.Errorf("unexpected airports columns: %v", suggestion.TableColumns["airports"])
	}
}

func TestSuggestJoins_TwoTablesFollowsPathOrientation(t *testing.T) {
	g := airportsGraph()

	// The stored edge runs wan -> airports, so the join order starts at
	// wan even though airports was requested first.
	suggestion := g.SuggestJoins([]string{"airports", "wan"}, DefaultMaxJoinDepth)
	if suggestion == nil {
		t.Fatal("expected a suggestion")
	}
	if !reflect.DeepEqual(suggestion.JoinOrder, []string{"wan", "airports"}) {
		t.Errorf("unexpected join order: %v", suggestion.JoinOrder)
	}
}

func TestSuggestJoins_SingleTable(t *testing.T) {
	g := airportsGraph()
	if s := g.SuggestJoins([]string{"airports"}, DefaultMaxJoinDepth); s != nil {
		t.Errorf("single table must not produce a suggestion, got %+v", s)
	}
}

func TestSuggestJoins_UnknownTable(t *testing.T) {
	g := airportsGraph()
	if s := g.SuggestJoins([]string{"airports", "missing"}, DefaultMaxJoinDepth); s != nil {
		t.Errorf("unknown table must not produce a suggestion, got %+v", s)
	}
}

func TestSuggestJoins_ThreeTablesGreedy(t *testing.T) {
	g := New()
	g.AddTableNode("orders", newTestNode("id", "user_id", "product_id"))
	g.AddTableNode("users", newTestNode("id", "name"))
	g.AddTableNode("products", newTestNode("id", "title"))
	g.AddReferenceEdge("orders", "users", "user_id", "id")
	g.AddReferenceEdge("orders", "products", "product_id", "id")

	suggestion := g.SuggestJoins([]string{"orders", "users", "products"}, DefaultMaxJoinDepth)
	if suggestion == nil {
		t.Fatal("expected a suggestion")
	}

	if suggestion.JoinOrder[0] != "orders" {
		t.Errorf("join order must start with the first requested table, got %v", suggestion.JoinOrder)
	}
	if len(suggestion.JoinOrder) != 3 {
		t.Errorf("unexpected join order: %v", suggestion.JoinOrder)
	}
	if len(suggestion.Joins) != 2 {
		t.Errorf("expected two join steps, got %+v", suggestion.Joins)
	}
}

func TestSuggestJoins_FallbackToAnyJoinedTable(t *testing.T) {
	// hub references both spokes. After joining spoke_a (via the reverse
	// edge from hub), spoke_b is unreachable from spoke_a within one
	// round trip only through the already-joined hub.
	g := New()
	g.AddTableNode("hub", newTestNode("id", "a_id", "b_id"))
	g.AddTableNode("spoke_a", newTestNode("id"))
	g.AddTableNode("spoke_b", newTestNode("id"))
	g.AddTableNode("isolated", newTestNode("id"))
	g.AddReferenceEdge("hub", "spoke_a", "a_id", "id")
	g.AddReferenceEdge("hub", "spoke_b", "b_id", "id")

	suggestion := g.SuggestJoins([]string{"hub", "spoke_a", "spoke_b"}, DefaultMaxJoinDepth)
	if suggestion == nil {
		t.Fatal("expected a suggestion")
	}
	if len(suggestion.JoinOrder) != 3 {
		t.Errorf("unexpected join order: %v", suggestion.JoinOrder)
	}
}

func TestSuggestJoins_DisconnectedFails(t *testing.T) {
	g := New()
	g.AddTableNode("left_a", newTestNode("id", "b_id"))
	g.AddTableNode("left_b", newTestNode("id"))
	g.AddTableNode("island", newTestNode("id"))
	g.AddReferenceEdge("left_a", "left_b", "b_id", "id")

	if s := g.SuggestJoins([]string{"left_a", "left_b", "island"}, DefaultMaxJoinDepth); s != nil {
		t.Errorf("disconnected set must fail synthesis, got %+v", s)
	}
}

func TestSuggestSQL_IntermediateTableDoesNotLeakIntoSelect(t *testing.T) {
	g := chainGraph()

	query := g.SuggestSQL([]string{"a", "c"}, nil, DefaultMaxJoinDepth)
	if query == "" {
		t.Fatal("expected a query")
	}

	lines := strings.SplitN(query, "\n", 2)
	selectClause := lines[0]

	if strings.Contains(selectClause, "b.") {
		t.Errorf("intermediate table leaked into SELECT: %s", selectClause)
	}
	for _, col := range []string{"a.id", "a.b_id", "a.label", "c.id", "c.name"} {
		if !strings.Contains(selectClause, col) {
			t.Errorf("SELECT missing %s: %s", col, selectClause)
		}
	}

	// The route through b still appears in the join chain.
	if !strings.Contains(query, "JOIN b ON a.b_id = b.id") {
		t.Errorf("expected join through b, got:\n%s", query)
	}
	if !strings.Contains(query, "JOIN c ON b.c_id = c.id") {
		t.Errorf("expected join onto c, got:\n%s", query)
	}
}

func TestSuggestSQL_ExplicitColumns(t *testing.T) {
	g := airportsGraph()

	query := g.SuggestSQL([]string{"wan", "airports"}, []string{"airports.NAME"}, DefaultMaxJoinDepth)
	if query == "" {
		t.Fatal("expected a query")
	}

	if !strings.HasPrefix(query, "SELECT airports.NAME\n") {
		t.Errorf("unexpected select clause:\n%s", query)
	}
	if !strings.Contains(query, "FROM wan") {
		t.Errorf("expected FROM wan:\n%s", query)
	}
	if !strings.Contains(query, "JOIN airports ON wan.APT_ID = airports.APT_ID") {
		t.Errorf("unexpected join clause:\n%s", query)
	}
}

func TestSuggestSQL_NoDuplicateJoins(t *testing.T) {
	g := New()
	g.AddTableNode("orders", newTestNode("id", "user_id"))
	g.AddTableNode("users", newTestNode("id", "name"))
	g.AddTableNode("addresses", newTestNode("id", "user_id"))
	g.AddReferenceEdge("orders", "users", "user_id", "id")
	g.AddReferenceEdge("addresses", "users", "user_id", "id")

	query := g.SuggestSQL([]string{"orders", "users", "addresses"}, nil, DefaultMaxJoinDepth)
	if query == "" {
		t.Fatal("expected a query")
	}

	if got := strings.Count(query, "JOIN users "); got > 1 {
		t.Errorf("users joined %d times:\n%s", got, query)
	}
	if !strings.Contains(query, "JOIN addresses ") {
		t.Errorf("expected addresses to be joined:\n%s", query)
	}
}

func TestSuggestSQL_NoTables(t *testing.T) {
	g := airportsGraph()
	if q := g.SuggestSQL(nil, nil, DefaultMaxJoinDepth); q != "" {
		t.Errorf("expected empty query, got %q", q)
	}
}

func TestSuggestSQL_NoPath(t *testing.T) {
	g := New()
	g.AddTableNode("a", newTestNode("id"))
	g.AddTableNode("z", newTestNode("id"))

	if q := g.SuggestSQL([]string{"a", "z"}, nil, DefaultMaxJoinDepth); q != "" {
		t.Errorf("expected empty query, got %q", q)
	}
}
