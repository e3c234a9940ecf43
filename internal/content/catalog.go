// Package content loads the site catalog: every piece of copy, image list and widget
// timing the pages render, kept in content/site.yaml.
package content

import (
	"fmt"
	"time"

	"snix.ai/snix-web/internal/stats"
)

// Catalog is the whole site.
type Catalog struct {
	Brand   Brand       `yaml:"brand"`
	Splash  SplashCopy  `yaml:"splash"`
	Home    HomePage    `yaml:"home"`
	Product ProductPage `yaml:"product"`
	AIShoot AIShootPage `yaml:"ai_shoot"`
	Contact ContactPage `yaml:"contact"`
	Footer  Footer      `yaml:"footer"`
}

type Brand struct {
	Name      string `yaml:"name"`
	Tagline   string `yaml:"tagline"`
	Logo      string `yaml:"logo"`
	DemoLabel string `yaml:"demo_label"`
}

type SplashCopy struct {
	Messages []string `yaml:"messages"`
}

type HomePage struct {
	RevealThreshold float64             `yaml:"reveal_threshold"`
	Hero            Hero                `yaml:"hero"`
	Studio          Studio              `yaml:"studio"`
	Stats           StatsSection        `yaml:"stats"`
	Video           VideoSection        `yaml:"video"`
	TryOn           TryOnSection        `yaml:"tryon"`
	Gallery         Gallery             `yaml:"gallery"`
	Testimonials    TestimonialsSection `yaml:"testimonials"`
	Models          ModelsSection       `yaml:"models"`
}

type Hero struct {
	Eyebrow      string   `yaml:"eyebrow"`
	Title        string   `yaml:"title"`
	Highlight    string   `yaml:"highlight"`
	Description  string   `yaml:"description"`
	PrimaryCTA   string   `yaml:"primary_cta"`
	SecondaryCTA string   `yaml:"secondary_cta"`
	IntervalMS   int      `yaml:"interval_ms"`
	Images       []string `yaml:"images"`
}

// Interval is the hero rotation period.
func (h Hero) Interval() time.Duration { return millis(h.IntervalMS, 4*time.Second) }

type Studio struct {
	ID         string        `yaml:"id"`
	Eyebrow    string        `yaml:"eyebrow"`
	Title      string        `yaml:"title"`
	Body       Markdown      `yaml:"body"`
	Badges     []string      `yaml:"badges"`
	IntervalMS int           `yaml:"interval_ms"`
	Slides     []StudioSlide `yaml:"slides"`
}

func (s Studio) Interval() time.Duration { return millis(s.IntervalMS, 5*time.Second) }

// StudioSlide pairs a generated model with the outfit it wears.
type StudioSlide struct {
	Model  string `yaml:"model"`
	Outfit string `yaml:"outfit"`
	Name   string `yaml:"name"`
}

type StatsSection struct {
	ID          string     `yaml:"id"`
	Eyebrow     string     `yaml:"eyebrow"`
	Title       string     `yaml:"title"`
	Highlight   string     `yaml:"highlight"`
	Description string     `yaml:"description"`
	Quote       string     `yaml:"quote"`
	DurationMS  int        `yaml:"duration_ms"`
	Steps       int        `yaml:"steps"`
	Items       []StatItem `yaml:"items"`
}

type StatItem struct {
	Key         string `yaml:"key"`
	Target      int    `yaml:"target"`
	Suffix      string `yaml:"suffix"`
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

func (s StatsSection) Duration() time.Duration { return millis(s.DurationMS, stats.DefaultDuration) }

// Targets converts the items for the animator.
func (s StatsSection) Targets() []stats.Target {
	out := make([]stats.Target, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, stats.Target{Key: it.Key, Value: it.Target})
	}
	return out
}

type VideoSection struct {
	ID          string `yaml:"id"`
	Eyebrow     string `yaml:"eyebrow"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Src         string `yaml:"src"`
	Caption     string `yaml:"caption"`
}

type TryOnSection struct {
	ID          string    `yaml:"id"`
	Eyebrow     string    `yaml:"eyebrow"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Src         string    `yaml:"src"`
	CTA         string    `yaml:"cta"`
	Features    []Feature `yaml:"features"`
}

type Gallery struct {
	ID          string `yaml:"id"`
	Eyebrow     string `yaml:"eyebrow"`
	Title       string `yaml:"title"`
	Highlight   string `yaml:"highlight"`
	Description string `yaml:"description"`
	Caption     string `yaml:"caption"`
	First       int    `yaml:"first"`
	Count       int    `yaml:"count"`
	Pattern     string `yaml:"pattern"`
}

// Images expands the numbered image pattern.
func (g Gallery) Images() []string {
	out := make([]string, 0, g.Count)
	for i := 0; i < g.Count; i++ {
		out = append(out, fmt.Sprintf(g.Pattern, g.First+i))
	}
	return out
}

type TestimonialsSection struct {
	ID          string        `yaml:"id"`
	Eyebrow     string        `yaml:"eyebrow"`
	Title       string        `yaml:"title"`
	Highlight   string        `yaml:"highlight"`
	Description string        `yaml:"description"`
	IntervalMS  int           `yaml:"interval_ms"`
	Items       []Testimonial `yaml:"items"`
}

func (t TestimonialsSection) Interval() time.Duration { return millis(t.IntervalMS, 4*time.Second) }

type Testimonial struct {
	Quote    string `yaml:"quote"`
	Author   string `yaml:"author"`
	Position string `yaml:"position"`
	Company  string `yaml:"company"`
	Rating   int    `yaml:"rating"`
	Metric   string `yaml:"metric"`
}

// Stars returns a slice the templates range over to draw the rating.
func (t Testimonial) Stars() []struct{} { return make([]struct{}, t.Rating) }

type ModelsSection struct {
	ID          string   `yaml:"id"`
	Eyebrow     string   `yaml:"eyebrow"`
	Title       string   `yaml:"title"`
	Highlight   string   `yaml:"highlight"`
	Description string   `yaml:"description"`
	CTA         string   `yaml:"cta"`
	Images      []string `yaml:"images"`
}

type Feature struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	CTA         string `yaml:"cta"`
}

type ProductPage struct {
	RevealThreshold float64         `yaml:"reveal_threshold"`
	Eyebrow         string          `yaml:"eyebrow"`
	Title           string          `yaml:"title"`
	Highlight       string          `yaml:"highlight"`
	Subtitle        string          `yaml:"subtitle"`
	Features        []Feature       `yaml:"features"`
	ComparisonTitle string          `yaml:"comparison_title"`
	Comparison      []ComparisonRow `yaml:"comparison"`
	UseCasesTitle   string          `yaml:"use_cases_title"`
	UseCases        []string        `yaml:"use_cases"`
	CTA             CallToAction    `yaml:"cta"`
}

type ComparisonRow struct {
	Aspect      string `yaml:"aspect"`
	Traditional string `yaml:"traditional"`
	Snix        string `yaml:"snix"`
}

type CallToAction struct {
	Title  string   `yaml:"title"`
	Body   Markdown `yaml:"body"`
	Button string   `yaml:"button"`
}

type AIShootPage struct {
	RevealThreshold        float64       `yaml:"reveal_threshold"`
	Eyebrow                string        `yaml:"eyebrow"`
	Title                  string        `yaml:"title"`
	Highlight              string        `yaml:"highlight"`
	Subtitle               string        `yaml:"subtitle"`
	Pitch                  Markdown      `yaml:"pitch"`
	CTA                    string        `yaml:"cta"`
	ServicesTitle          string        `yaml:"services_title"`
	ServicesSubtitle       string        `yaml:"services_subtitle"`
	Services               []Service     `yaml:"services"`
	ModelsTitle            string        `yaml:"models_title"`
	ModelsIntro            string        `yaml:"models_intro"`
	Models                 []string      `yaml:"models"`
	SettingsTitle          string        `yaml:"settings_title"`
	SettingsIntro          string        `yaml:"settings_intro"`
	Settings               []string      `yaml:"settings"`
	TestimonialsTitle      string        `yaml:"testimonials_title"`
	TestimonialsSubtitle   string        `yaml:"testimonials_subtitle"`
	TestimonialsIntervalMS int           `yaml:"testimonials_interval_ms"`
	Testimonials           []Testimonial `yaml:"testimonials"`
	SegmentsTitle          string        `yaml:"segments_title"`
	Segments               []Segment     `yaml:"segments"`
	Closing                Closing       `yaml:"closing"`
}

func (a AIShootPage) TestimonialsInterval() time.Duration {
	return millis(a.TestimonialsIntervalMS, 5*time.Second)
}

type Service struct {
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Description string `yaml:"description"`
	Perfect     string `yaml:"perfect"`
}

type Segment struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Closing struct {
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

type ContactPage struct {
	Title     string `yaml:"title"`
	Intro     string `yaml:"intro"`
	FormTitle string `yaml:"form_title"`
	Phone     string `yaml:"phone"`
	Email     string `yaml:"email"`
	Location  string `yaml:"location"`
	Success   string `yaml:"success"`
}

type Footer struct {
	Description           Markdown    `yaml:"description"`
	NewsletterTitle       string      `yaml:"newsletter_title"`
	NewsletterBody        string      `yaml:"newsletter_body"`
	NewsletterPlaceholder string      `yaml:"newsletter_placeholder"`
	Copyright             string      `yaml:"copyright"`
	Groups                []LinkGroup `yaml:"groups"`
	Socials               []Link      `yaml:"socials"`
}

type LinkGroup struct {
	Key   string `yaml:"key"`
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

type Link struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

func millis(ms int, fallback time.Duration) time.Duration {
	if ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}
