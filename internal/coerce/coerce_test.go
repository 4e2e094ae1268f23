package coerce

import (
	"errors"
	"testing"
)

func TestRequiredString(t *testing.T) {
	tests := []struct {
		name    string
		cell    Raw
		want    string
		wantErr bool
	}{
		{"Present value", FromString("catalog1"), "catalog1", false},
		{"Value with inner spaces kept verbatim", FromString(" a b "), " a b ", false},
		{"Empty cell", FromString(""), "", true},
		{"Whitespace-only cell", FromString("   "), "", true},
		{"Null cell", FromNull(), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredString("table_name", 3, tt.cell)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequiredString() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var missing *MissingRequiredFieldError
				if !errors.As(err, &missing) {
					t.Fatalf("expected MissingRequiredFieldError, got %T", err)
				}
				if missing.Field != "table_name" || missing.Row != 3 {
					t.Errorf("error identity = (%q, %d), want (table_name, 3)", missing.Field, missing.Row)
				}
				return
			}
			if got != tt.want {
				t.Errorf("RequiredString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequiredInt(t *testing.T) {
	tests := []struct {
		name    string
		cell    Raw
		want    int
		wantErr bool
	}{
		{"Plain integer", FromString("42"), 42, false},
		{"Negative integer", FromString("-7"), -7, false},
		{"Padded integer", FromString(" 255 "), 255, false},
		{"Empty cell", FromString(""), 0, true},
		{"Null cell", FromNull(), 0, true},
		{"Non-numeric cell", FromString("varchar"), 0, true},
		{"Float is not an integer", FromString("1.5"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RequiredInt("ordinal_position", 0, tt.cell)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RequiredInt() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("RequiredInt() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStringNotNull(t *testing.T) {
	if got := StringNotNull(FromNull()); got != "" {
		t.Errorf("StringNotNull(null) = %q, want empty", got)
	}
	if got := StringNotNull(FromString("")); got != "" {
		t.Errorf("StringNotNull(empty) = %q, want empty", got)
	}
	if got := StringNotNull(FromString("YES")); got != "YES" {
		t.Errorf("StringNotNull(YES) = %q, want YES", got)
	}
}

func TestIntNotNull(t *testing.T) {
	tests := []struct {
		name    string
		cell    Raw
		want    int
		wantErr bool
	}{
		{"Null defaults to zero", FromNull(), 0, false},
		{"Empty defaults to zero", FromString(""), 0, false},
		{"Value parsed", FromString("255"), 255, false},
		{"Garbage still fails", FromString("abc"), 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntNotNull("numeric_precision", 1, tt.cell)
			if (err != nil) != tt.wantErr {
				t.Fatalf("IntNotNull() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("IntNotNull() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMissingRequiredFieldErrorMessage(t *testing.T) {
	err := &MissingRequiredFieldError{Field: "column_name", Row: 17}
	want := `missing required field "column_name" at record 17`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	unknownRow := &MissingRequiredFieldError{Field: "cell 4", Row: -1}
	if unknownRow.Error() != `missing required field "cell 4"` {
		t.Errorf("Error() = %q", unknownRow.Error())
	}
}
