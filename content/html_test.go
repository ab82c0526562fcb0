package content

import (
	"strings"
	"testing"
)

func TestPrepareHTML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		notWant []string
	}{
		{
			name:    "script removed",
			in:      `<p>Tee times</p><script>alert(1)</script>`,
			want:    []string{"<p>Tee times</p>"},
			notWant: []string{"script", "alert"},
		},
		{
			name:    "event handler removed",
			in:      `<p onclick="steal()">Draw</p>`,
			want:    []string{"<p>Draw</p>"},
			notWant: []string{"onclick"},
		},
		{
			name:    "iframe removed",
			in:      `<iframe src="https://evil.example"></iframe><p>ok</p>`,
			want:    []string{"<p>ok</p>"},
			notWant: []string{"iframe"},
		},
		{
			name: "entities decoded",
			in:   `&lt;p&gt;Captain&#39;s Day&lt;/p&gt;`,
			want: []string{"<p>Captain&#39;s Day</p>"},
		},
		{
			name: "links kept",
			in:   `<a href="/pdfs/draw.pdf" target="_blank">Draw</a>`,
			want: []string{`href="/pdfs/draw.pdf"`, `target="_blank"`, ">Draw</a>"},
		},
		{
			name:    "javascript href dropped",
			in:      `<a href="javascript:alert(1)">x</a>`,
			notWant: []string{"javascript"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrepareHTML(tt.in)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("PrepareHTML(%q) = %q, missing %q", tt.in, got, w)
				}
			}
			for _, nw := range tt.notWant {
				if strings.Contains(got, nw) {
					t.Errorf("PrepareHTML(%q) = %q, should not contain %q", tt.in, got, nw)
				}
			}
		})
	}
}
