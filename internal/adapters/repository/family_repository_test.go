package repository

import (
	"fmt"
	"regexp"
	"strings"
	"testing"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// Every bound argument must appear in the statement text; an unreferenced
// parameter fails at parse time on Postgres (SQLSTATE 42P18).
func assertPlaceholdersMatchArgs(t *testing.T, cond string, args []any) {
	t.Helper()
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(cond, -1) {
		seen[m[1]] = true
	}
	for i := range args {
		n := fmt.Sprintf("%d", i+1)
		if !seen[n] {
			t.Errorf("argument $%s is bound but never referenced in %q", n, cond)
		}
		delete(seen, n)
	}
	for n := range seen {
		t.Errorf("condition references $%s with no bound argument: %q", n, cond)
	}
}

func TestSharedHistoryFilter_UserScoped(t *testing.T) {
	cond, args := sharedHistoryFilter("alice", "bob", "")

	if len(args) != 2 {
		t.Fatalf("args = %v, want granter and grantee", args)
	}
	assertPlaceholdersMatchArgs(t, cond, args)
	if !strings.Contains(cond, "user_id = $1") {
		t.Errorf("condition %q does not scope to the granter's own records", cond)
	}
	if !strings.Contains(cond, "$2 = ANY(shared_with)") {
		t.Errorf("condition %q does not check the record share list", cond)
	}
}

func TestSharedHistoryFilter_MemberScoped(t *testing.T) {
	cond, args := sharedHistoryFilter("alice", "bob", "member-1")

	if len(args) != 3 {
		t.Fatalf("args = %v, want granter, grantee and member", args)
	}
	assertPlaceholdersMatchArgs(t, cond, args)
	if !strings.Contains(cond, "family_member_id = $3") {
		t.Errorf("condition %q does not narrow to the requested member", cond)
	}
	// The member filter alone would drop $1 from the statement and let a
	// grantee name any member id; ownership must bind it to the granter.
	if !strings.Contains(cond, "SELECT id FROM family_members WHERE user_id = $1") {
		t.Errorf("condition %q does not tie the member to the granter", cond)
	}
	if !strings.Contains(cond, "is_shared = TRUE") {
		t.Errorf("condition %q does not require the record-level share flag", cond)
	}
}
