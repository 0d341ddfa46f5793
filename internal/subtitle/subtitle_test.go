package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/studyplay/internal/study"
)

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestParseSRT(t *testing.T) {
	in := "\ufeff1\r\n00:00:01,000 --> 00:00:03,500\r\n<i>私は学生です</i>\r\n\r\n" +
		"2\n00:00:04,000 --> 00:00:06,000\n{\\an8}猫が好き\nです\n\n" +
		"3\n00:00:07,000 --> 00:00:08,000\n<font color=\"red\"></font>\n\n" +
		"4\n01:02:03,004 --> 01:02:05,000\n最後\n"

	subs, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []study.Subtitle{
		{Index: 0, Start: ms(1000), End: ms(3500), Text: "私は学生です"},
		{Index: 1, Start: ms(4000), End: ms(6000), Text: "猫が好き\nです"},
		{Index: 2, Start: time.Hour + 2*time.Minute + 3*time.Second + ms(4), End: time.Hour + 2*time.Minute + 5*time.Second, Text: "最後"},
	}
	if len(subs) != len(want) {
		t.Fatalf("len(subs) = %d, want %d: %+v", len(subs), len(want), subs)
	}
	for i := range want {
		if subs[i] != want[i] {
			t.Errorf("subs[%d] = %+v, want %+v", i, subs[i], want[i])
		}
	}
}

func TestParseVTT(t *testing.T) {
	in := `WEBVTT
Kind: captions
Language: ja

NOTE this is a comment
spanning lines

STYLE
::cue { color: yellow }

intro
00:01.000 --> 00:02.500 align:start position:10%
こんにちは

00:00:03.000 --> 00:00:04.000
<v Taro>元気ですか</v>
`
	subs, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("len(subs) = %d, want 2: %+v", len(subs), subs)
	}
	if got := subs[0]; got.Start != ms(1000) || got.End != ms(2500) || got.Text != "こんにちは" || got.Index != 0 {
		t.Errorf("subs[0] = %+v", got)
	}
	if got := subs[1]; got.Text != "元気ですか" || got.Index != 1 || got.Start != 3*time.Second {
		t.Errorf("subs[1] = %+v", got)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := map[string]string{
		"no timing":     "1\nhello\n",
		"bad timestamp": "1\n00:00:xx,000 --> 00:00:02,000\nhello\n",
		"reversed":      "1\n00:00:05,000 --> 00:00:02,000\nhello\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(in))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse() error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestParseEmpty(t *testing.T) {
	subs, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(subs) != 0 {
		t.Errorf("len(subs) = %d, want 0", len(subs))
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:01,000", time.Second},
		{"00:01.5", ms(1500)},
		{"10:00", 10 * time.Minute},
		{"00:00:00.1234", ms(123)},
	}
	for _, tc := range cases {
		got, err := parseTimestamp(tc.in)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := parseTimestamp("1"); err == nil {
		t.Error("parseTimestamp(\"1\") error = nil, want error")
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ep1.srt")
	if err := os.WriteFile(path, []byte("1\n00:00:01,000 --> 00:00:02,000\nはい\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	subs, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(subs) != 1 || subs[0].Text != "はい" {
		t.Errorf("ParseFile() = %+v", subs)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.srt")); err == nil {
		t.Error("ParseFile(missing) error = nil, want error")
	}
}
