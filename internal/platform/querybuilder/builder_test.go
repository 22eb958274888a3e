package querybuilder

import "testing"

func TestSelectBuilder(t *testing.T) {
	query, args, err := Select("id", "name").
		From("maps").
		Where(Eq("is_active", true), IsNull("retired_at")).
		OrderBy("name").
		Limit(10).
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT id, name FROM maps WHERE is_active = $1 AND retired_at IS NULL ORDER BY name LIMIT 10"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 1 || args[0] != true {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_JoinComparisonsAndLock(t *testing.T) {
	query, args, err := Select("s.*").
		From("scrims s").
		Join("JOIN scrim_players sp ON sp.scrim_id = s.id AND sp.checked_in = ?", false).
		Where(Eq("sp.player_id", int64(7)), Gt("s.created_at", "2026-01-01"), In("s.status", []any{"checking_in", "active"})).
		OrderBy("s.created_at DESC").
		Limit(5).
		ForUpdate().
		ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}

	wantQuery := "SELECT s.* FROM scrims s JOIN scrim_players sp ON sp.scrim_id = s.id AND sp.checked_in = $1 " +
		"WHERE sp.player_id = $2 AND s.created_at > $3 AND s.status IN ($4, $5) ORDER BY s.created_at DESC LIMIT 5 FOR UPDATE"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 5 || args[0] != false || args[1] != int64(7) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	query, args, err := Select("*").From("players").Where(In("id", nil)).ToSQL()
	if err != nil {
		t.Fatalf("build select query: %v", err)
	}
	if query != "SELECT * FROM players WHERE 1=0" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder(t *testing.T) {
	query, args, err := InsertInto("scrim_maps").
		Columns("scrim_id", "map_id", "map_order").
		Values(int64(1), int64(10), 1).
		Values(int64(1), int64(11), 2).
		Suffix("RETURNING id").
		ToSQL()
	if err != nil {
		t.Fatalf("build insert query: %v", err)
	}

	wantQuery := "INSERT INTO scrim_maps (scrim_id, map_id, map_order) VALUES ($1, $2, $3), ($4, $5, $6) RETURNING id"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 6 {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	if _, _, err := InsertInto("players").Columns("a", "b").Values(1).ToSQL(); err == nil {
		t.Fatalf("expected row width error")
	}
}

func TestUpdateBuilder(t *testing.T) {
	query, args, err := Update("scrims").
		Set("status", "cancelled").
		SetExpr("completed_at", "COALESCE(completed_at, ?)", "2026-01-01").
		Where(Eq("id", int64(3)), In("status", []any{"checking_in"})).
		ToSQL()
	if err != nil {
		t.Fatalf("build update query: %v", err)
	}

	wantQuery := "UPDATE scrims SET status = $1, completed_at = COALESCE(completed_at, $2) WHERE id = $3 AND status IN ($4)"
	if query != wantQuery {
		t.Fatalf("unexpected query:\nwant: %s\ngot:  %s", wantQuery, query)
	}
	if len(args) != 4 || args[0] != "cancelled" || args[2] != int64(3) {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestInsertModel(t *testing.T) {
	type row struct {
		ID       int64  `db:"id,readonly"`
		PlayerID int64  `db:"player_id"`
		Reason   string `db:"reason"`
		Ignored  string `db:"-"`
	}

	query, args, err := InsertModel("queue_bans", row{PlayerID: 9, Reason: "manual"}, "RETURNING id")
	if err != nil {
		t.Fatalf("build insert model query: %v", err)
	}
	if query != "INSERT INTO queue_bans (player_id, reason) VALUES ($1, $2) RETURNING id" {
		t.Fatalf("unexpected query: %s", query)
	}
	if len(args) != 2 || args[0] != int64(9) {
		t.Fatalf("unexpected args: %+v", args)
	}
}
