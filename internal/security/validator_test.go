package security

import (
	"errors"
	"strings"
	"testing"
)

func TestValidator_ValidateFragment(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		strict    bool
		wantError bool
	}{
		// Legitimate fragments
		{"comparison", "`age` >= 18", false, false},
		{"conjunction", "( `age` >= 18 AND `name` != 'Jo' )", false, false},
		{"function", "lower(name) = 'jo'", false, false},
		{"or_in_column_name", "`order_id` = 3", false, false},
		{"qualified", "users.id = orders.user_id", false, false},

		// Comments
		{"double_dash", "name = 'admin'-- AND password = 'x'", false, true},
		{"c_style", "id = 1 /*x*/", false, true},
		{"mysql_hash", "id = 1# AND status = 0", false, true},

		// Stacked statements
		{"stacked_drop", "1 = 1; DROP TABLE users", false, true},
		{"trailing_semicolon", "id = 1;", false, true},

		// UNION
		{"union_select", "id = 1 UNION SELECT password FROM admin", false, true},
		{"union_all_select", "id = 1 union all select 1", false, true},

		// Timing and procedures
		{"pg_sleep", "id = 1 AND pg_sleep(5) > 0", false, true},
		{"benchmark", "BENCHMARK(1000000, MD5('x'))", false, true},
		{"waitfor", "1=1 WAITFOR DELAY '0:0:5'", false, true},
		{"xp_cmdshell", "exec xp_cmdshell('dir')", false, true},
		{"information_schema", "id IN (SELECT 1 FROM information_schema.tables)", false, true},

		// Tautologies
		{"tautology", "id = 1 OR 1=1", false, true},
		{"quoted_tautology", "name = 'a' OR '1'='1'", false, true},

		// Strict mode
		{"strict_union_alone", "kind = 'UNION'", true, true},
		{"strict_exec", "EXEC something", true, true},
		{"strict_allows_plain", "`age` > 3", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(WithStrict(tt.strict))
			err := v.ValidateFragment(tt.fragment)
			if (err != nil) != tt.wantError {
				t.Fatalf("ValidateFragment(%q) error = %v, wantError %v", tt.fragment, err, tt.wantError)
			}
			if err != nil && !errors.Is(err, ErrUnsafeFragment) {
				t.Errorf("error %v does not wrap ErrUnsafeFragment", err)
			}
		})
	}
}

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"users", "first_name", "_private", "T1", strings.Repeat("a", 63)}
	for _, name := range valid {
		if err := ValidateIdentifier(name); err != nil {
			t.Errorf("ValidateIdentifier(%q) = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "1abc", "first name", "a;b", "x`y", "naïve", "users.id", strings.Repeat("a", 64)}
	for _, name := range invalid {
		err := ValidateIdentifier(name)
		if !errors.Is(err, ErrInvalidIdentifier) {
			t.Errorf("ValidateIdentifier(%q) = %v, want ErrInvalidIdentifier", name, err)
		}
	}
}
