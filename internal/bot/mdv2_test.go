// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bot

import "testing"

func TestFormatMarkdownV2(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"escapes reserved characters",
			"Hello. World! (yes)",
			`Hello\. World\! \(yes\)`,
		},
		{
			"bold becomes single asterisk",
			"This is **important** here.",
			`This is *important* here\.`,
		},
		{
			"bold content is escaped",
			"**v1.2**",
			`*v1\.2*`,
		},
		{
			"heading becomes bold line",
			"# Overview\nSome text.",
			"*Overview*\nSome text\\.",
		},
		{
			"inline code keeps its content",
			"run `make.it` now",
			"run `make.it` now",
		},
		{
			"links survive with escaped label",
			"see [the docs.](https://example.com/a)",
			`see [the docs\.](https://example.com/a)`,
		},
		{
			"underscores escaped in plain text",
			"snake_case",
			`snake\_case`,
		},
		{
			"code fence passes through",
			"```go\nf(x)\n```",
			"```go\nf(x)\n```",
		},
		{
			"empty input",
			"",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatMarkdownV2(tt.in); got != tt.want {
				t.Errorf("FormatMarkdownV2(%q)\n got  %q\n want %q", tt.in, got, tt.want)
			}
		})
	}
}
