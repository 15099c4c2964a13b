package watcher

import "testing"

func TestFilter_Match(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		excludes []string
		want     bool
	}{
		{name: "Pdf", file: "report.pdf", want: true},
		{name: "Several dots", file: "report.final.pdf", want: true},
		{name: "Hidden pdf", file: ".pdf", want: true},
		{name: "Other extension", file: "report.docx", want: false},
		{name: "Upper case", file: "REPORT.PDF", want: false},
		{name: "Pdf inside name", file: "report.pdf.tmp", want: false},
		{name: "No dot", file: "report", want: false},
		{name: "No dot named like the extension", file: "pdf", want: false},
		{name: "Trailing dot", file: "report.", want: false},
		{name: "Excluded", file: "~$report.pdf", excludes: []string{"~$*"}, want: false},
		{name: "Not excluded", file: "report.pdf", excludes: []string{"~$*", "draft-*.pdf"}, want: true},
		{name: "Excluded by second pattern", file: "draft-1.pdf", excludes: []string{"~$*", "draft-*.pdf"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{Extension: DefaultExtension, Excludes: tt.excludes}
			if got := f.Match(tt.file); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestOp_String(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "none"},
		{OpCreate, "create"},
		{OpRemove | OpRename, "remove|rename"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
