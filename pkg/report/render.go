package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mchmarny/skypulse/pkg/trend"
)

const (
	maxTextRunes = 200
	maxBarLength = 50
	barRune      = "█"
	ruleWidth    = 60
	timeLayout   = "02.01.2006 15:04"
)

// Writer renders reports as human readable text.
type Writer struct {
	out     io.Writer
	loc     *time.Location
	heading *color.Color
	muted   *color.Color
}

// NewWriter returns a text renderer. Timestamps are shown in loc (local when nil).
func NewWriter(out io.Writer, loc *time.Location, useColor bool) *Writer {
	if loc == nil {
		loc = time.Local
	}

	heading := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.Faint)
	if !useColor {
		heading.DisableColor()
		muted.DisableColor()
	} else {
		heading.EnableColor()
		muted.EnableColor()
	}

	return &Writer{
		out:     out,
		loc:     loc,
		heading: heading,
		muted:   muted,
	}
}

// Render writes every section present in the report.
func (w *Writer) Render(r *Report) error {
	if r == nil {
		return nil
	}
	for _, s := range r.Searches {
		if err := w.RenderSearch(s); err != nil {
			return err
		}
	}
	if r.Trending != nil {
		if err := w.RenderTrending(r.Trending); err != nil {
			return err
		}
	}
	if r.Hashtags != nil {
		if err := w.RenderHashtags(r.Hashtags); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) section(title string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(w.out, "\n%s\n", rule)
	w.heading.Fprintln(w.out, title)
	fmt.Fprintln(w.out, rule)
}

// RenderSearch writes the posts found for a hashtag.
func (w *Writer) RenderSearch(s *Search) error {
	w.section(fmt.Sprintf("🔍 Search for #%s", strings.TrimLeft(s.Tag, "#")))

	if s.Error != "" {
		_, err := fmt.Fprintf(w.out, "Error searching for %s: %s\n", s.Tag, s.Error)
		return err
	}

	if len(s.Posts) == 0 {
		_, err := fmt.Fprintf(w.out, "No posts found for %s.\n", s.Tag)
		return err
	}

	fmt.Fprintf(w.out, "Posts found: %d\n\n", len(s.Posts))
	for i, p := range s.Posts {
		if _, err := fmt.Fprint(w.out, w.FormatPost(p, i+1)); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrending writes the engagement ranked posts.
func (w *Writer) RenderTrending(t *Trending) error {
	w.section(fmt.Sprintf("🔥 Top posts of the last %d hours", t.WindowHours))

	if t.Error != "" {
		_, err := fmt.Fprintf(w.out, "Error fetching trending posts: %s\n", t.Error)
		return err
	}

	if t.Ranking == nil || len(t.Ranking.Posts) == 0 {
		_, err := fmt.Fprintf(w.out, "No posts in the last %d hours.\n", t.WindowHours)
		return err
	}

	fmt.Fprintf(w.out, "Posts found: %d\n\n", t.Ranking.Matched)
	for i, sp := range t.Ranking.Posts {
		w.muted.Fprintf(w.out, "Engagement score: %d\n", sp.Score)
		if _, err := fmt.Fprint(w.out, w.FormatPost(sp.Post, i+1)); err != nil {
			return err
		}
	}
	return nil
}

// RenderHashtags writes the hashtag frequency bar chart.
func (w *Writer) RenderHashtags(s *trend.HashtagSummary) error {
	w.section("📊 Trending hashtags")

	if s == nil || len(s.Tags) == 0 {
		_, err := fmt.Fprintln(w.out, "No hashtags found.")
		return err
	}

	fmt.Fprintf(w.out, "\nTop %d hashtags:\n\n", len(s.Tags))
	for i, h := range s.Tags {
		if _, err := fmt.Fprintln(w.out, FormatBar(i+1, h)); err != nil {
			return err
		}
	}
	return nil
}

// FormatPost returns the text block for a single post. Index 0 omits the rank prefix.
func (w *Writer) FormatPost(p *trend.Post, index int) string {
	if p == nil {
		return ""
	}

	prefix := ""
	if index > 0 {
		prefix = fmt.Sprintf("%d. ", index)
	}

	ts := "unknown time"
	if created, err := p.CreatedAt(); err == nil {
		ts = created.In(w.loc).Format(timeLayout)
	}

	return fmt.Sprintf("\n%s@%s (%s)\n%s\n💙 %d Likes | 🔁 %d Reposts | 💬 %d Replies\n",
		prefix, p.Author.Handle, ts, Truncate(p.Text(), maxTextRunes),
		p.LikeCount, p.RepostCount, p.ReplyCount)
}

// FormatBar returns a single bar chart line, the bar is capped at 50 characters.
func FormatBar(index int, h *trend.HashtagCount) string {
	n := h.Count
	if n > maxBarLength {
		n = maxBarLength
	}
	if n < 0 {
		n = 0
	}
	return fmt.Sprintf("%2d. %-20s %s (%d)", index, h.Tag, strings.Repeat(barRune, n), h.Count)
}

// Truncate shortens s to max runes and appends an ellipsis when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
