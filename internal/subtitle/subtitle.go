// Package subtitle reads SubRip (.srt) and WebVTT (.vtt) files into the
// subtitle lines consumed by the study engine.
package subtitle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/studyplay/internal/study"
)

// ErrMalformed is returned for cue timings that cannot be parsed.
var ErrMalformed = errors.New("malformed subtitle")

var (
	tagPattern      = regexp.MustCompile(`<[^>]*>`)
	assStylePattern = regexp.MustCompile(`\{\\[^}]*\}`)
)

// ParseFile opens and parses path.
func ParseFile(path string) ([]study.Subtitle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitles: %w", err)
	}
	defer f.Close()

	subs, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return subs, nil
}

// Parse reads SRT or WebVTT cues, detected from the WEBVTT header. Cues are
// indexed 0..n-1 in file order. Formatting tags are stripped and cues left
// with no text are dropped without consuming an index.
func Parse(r io.Reader) ([]study.Subtitle, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		subs    []study.Subtitle
		block   []string
		lineNo  int
		startNo int
		first   = true
		vtt     bool
	)

	flush := func() error {
		defer func() { block = block[:0] }()
		if len(block) == 0 {
			return nil
		}
		sub, ok, err := parseBlock(block, vtt)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrMalformed, startNo, err)
		}
		if ok {
			sub.Index = len(subs)
			subs = append(subs, sub)
		}
		return nil
	}

	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
			if strings.HasPrefix(line, "WEBVTT") {
				vtt = true
				// The header block runs to the first blank line.
				for sc.Scan() {
					lineNo++
					if strings.TrimSpace(sc.Text()) == "" {
						break
					}
				}
				continue
			}
		}
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if len(block) == 0 {
			startNo = lineNo
		}
		block = append(block, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read subtitles: %w", err)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return subs, nil
}

// parseBlock turns one blank-line separated block into a cue. ok is false
// for blocks that carry no cue (WebVTT NOTE/STYLE/REGION, empty text).
func parseBlock(block []string, vtt bool) (study.Subtitle, bool, error) {
	if vtt {
		switch {
		case strings.HasPrefix(block[0], "NOTE"),
			strings.HasPrefix(block[0], "STYLE"),
			strings.HasPrefix(block[0], "REGION"):
			return study.Subtitle{}, false, nil
		}
	}

	timing := -1
	for i, l := range block {
		if strings.Contains(l, "-->") {
			timing = i
			break
		}
		// Cue identifiers occupy at most one line before the timing.
		if i >= 1 {
			break
		}
	}
	if timing < 0 {
		return study.Subtitle{}, false, fmt.Errorf("missing cue timing")
	}

	start, end, err := parseTiming(block[timing])
	if err != nil {
		return study.Subtitle{}, false, err
	}

	text := cleanText(block[timing+1:])
	if text == "" {
		return study.Subtitle{}, false, nil
	}
	return study.Subtitle{Start: start, End: end, Text: text}, true, nil
}

func parseTiming(line string) (time.Duration, time.Duration, error) {
	from, to, ok := strings.Cut(line, "-->")
	if !ok {
		return 0, 0, fmt.Errorf("missing arrow in %q", line)
	}
	// WebVTT cue settings follow the end time.
	if fields := strings.Fields(to); len(fields) > 0 {
		to = fields[0]
	}
	start, err := parseTimestamp(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, err
	}
	end, err := parseTimestamp(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("cue ends before it starts: %q", line)
	}
	return start, end, nil
}

// parseTimestamp accepts [hh:]mm:ss[,.]mmm.
func parseTimestamp(s string) (time.Duration, error) {
	s = strings.Replace(s, ",", ".", 1)
	clock, frac, _ := strings.Cut(s, ".")

	parts := strings.Split(clock, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("bad timestamp %q", s)
	}
	var total time.Duration
	units := []time.Duration{time.Second, time.Minute, time.Hour}
	for i := range parts {
		p := parts[len(parts)-1-i]
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("bad timestamp %q", s)
		}
		total += time.Duration(n) * units[i]
	}

	if frac != "" {
		if len(frac) > 3 {
			frac = frac[:3]
		}
		for len(frac) < 3 {
			frac += "0"
		}
		ms, err := strconv.Atoi(frac)
		if err != nil {
			return 0, fmt.Errorf("bad timestamp %q", s)
		}
		total += time.Duration(ms) * time.Millisecond
	}
	return total, nil
}

func cleanText(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = tagPattern.ReplaceAllString(l, "")
		l = assStylePattern.ReplaceAllString(l, "")
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
