package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/time/rate"
	"smokecheck/internal/config"
	"smokecheck/internal/extract"
	"smokecheck/internal/fetch"
	"smokecheck/internal/log"
	"smokecheck/internal/model"
	"smokecheck/internal/util"
)

const (
	SectionVersion        = "Version"
	SectionAssets         = "Asset Availability"
	SectionSEO            = "SEO & Metadata"
	SectionInfrastructure = "Infrastructure"
)

var releaseTagPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+$`)

// Inputs is everything a check may look at. It is built once per run and
// never modified by a check.
type Inputs struct {
	Config          *config.Config
	Fetcher         fetch.Fetcher
	Release         *model.Release
	Doc             *html.Node
	ExpectedVersion string
}

// Check is one entry of the ordered check table. Run fills Passed, Message
// and Details; the runner stamps Name and Section.
type Check struct {
	Name    string
	Section string
	Run     func(ctx context.Context, in *Inputs) model.CheckResult
}

// DefaultChecks returns the checks in report order.
func DefaultChecks() []Check {
	return []Check{
		{Name: "Structured data has latest version", Section: SectionVersion, Run: checkStructuredDataVersion},
		{Name: "Download links are current", Section: SectionVersion, Run: checkDownloadLinks},
		{Name: "Release assets reachable", Section: SectionAssets, Run: checkAssetsReachable},
		{Name: "SEO files present", Section: SectionSEO, Run: checkSEOFiles},
		{Name: "OG image reachable", Section: SectionSEO, Run: checkOGImage},
		{Name: "Canonical URL correct", Section: SectionSEO, Run: checkCanonicalURL},
		{Name: "Structured data complete", Section: SectionSEO, Run: checkStructuredDataComplete},
		{Name: "All links valid", Section: SectionSEO, Run: checkAllLinks},
		{Name: "Dynamic update script present", Section: SectionInfrastructure, Run: checkDynamicUpdateScript},
		{Name: "Pages deployment built", Section: SectionInfrastructure, Run: checkPagesBuilt},
		{Name: "Release tag format", Section: SectionInfrastructure, Run: checkReleaseTagFormat},
	}
}

func pass(format string, args ...any) model.CheckResult {
	return model.CheckResult{Passed: true, Message: fmt.Sprintf(format, args...)}
}

func fail(format string, args ...any) model.CheckResult {
	return model.CheckResult{Passed: false, Message: fmt.Sprintf(format, args...)}
}

func checkStructuredDataVersion(_ context.Context, in *Inputs) model.CheckResult {
	data, err := extract.JSONLD(in.Doc)
	if err != nil {
		return fail("Structured data unavailable: %v", err)
	}

	raw := data.String("softwareVersion")
	if raw == "" {
		return fail("softwareVersion is missing or not a string")
	}

	version := util.NormalizeVersion(raw)
	expected := util.NormalizeVersion(in.ExpectedVersion)
	if version != expected {
		return fail("Found: %s, expected: %s", version, expected)
	}
	return pass("Version: %s", version)
}

func checkDownloadLinks(_ context.Context, in *Inputs) model.CheckResult {
	suffixes := in.Config.InstallerSuffixes
	links := extract.Links(in.Doc, suffixes...)
	if len(links) == 0 {
		return fail("No installer links found (%s)", strings.Join(suffixes, ", "))
	}

	expected := util.NormalizeVersion(in.ExpectedVersion)
	if expected == "" {
		return fail("No expected version to compare %d installer links against", len(links))
	}

	result := model.CheckResult{Passed: true}
	outdated := 0
	for _, link := range links {
		current := strings.Contains(link, expected)
		d := model.Detail{Label: link, Passed: current}
		if !current {
			d.Message = "does not reference " + expected
			outdated++
			result.Passed = false
		}
		result.Details = append(result.Details, d)
	}

	if result.Passed {
		result.Message = fmt.Sprintf("%d installer links point at %s", len(links), expected)
	} else {
		result.Message = fmt.Sprintf("%d of %d installer links are outdated", outdated, len(links))
	}
	return result
}

func checkAssetsReachable(ctx context.Context, in *Inputs) model.CheckResult {
	assets := in.Release.Assets
	if len(assets) == 0 {
		return fail("Release %s has no assets", in.Release.TagName)
	}

	result := model.CheckResult{Passed: true}
	var unreachable []string
	for _, asset := range assets {
		d := model.Detail{Label: asset.Name}

		code, err := in.Fetcher.HeadStatus(ctx, asset.BrowserDownloadURL)
		switch {
		case err != nil:
			d.Message = err.Error()
		case code != http.StatusOK:
			d.Message = fmt.Sprintf("HTTP %d", code)
		default:
			d.Passed = true
			d.Message = fmt.Sprintf("%.1f MB", asset.SizeMB())
		}

		if !d.Passed {
			log.Logger.Warn("release asset unreachable",
				zap.String("asset", asset.Name),
				zap.String("url", asset.BrowserDownloadURL),
				zap.String("reason", d.Message),
			)
			unreachable = append(unreachable, asset.Name)
			result.Passed = false
		}
		result.Details = append(result.Details, d)
	}

	if result.Passed {
		result.Message = fmt.Sprintf("%d assets available", len(assets))
	} else {
		result.Message = fmt.Sprintf("Unreachable: %s", strings.Join(unreachable, ", "))
	}
	return result
}

func checkSEOFiles(ctx context.Context, in *Inputs) model.CheckResult {
	result := model.CheckResult{Passed: true}
	var missing []string

	for _, name := range in.Config.SEOFiles {
		d := model.Detail{Label: name}

		target, err := util.ResolveURL(in.Config.LandingPage, name)
		if err != nil {
			d.Message = err.Error()
		} else if resp, err := in.Fetcher.Get(ctx, target); err != nil {
			d.Message = err.Error()
		} else if resp.StatusCode != http.StatusOK {
			d.Message = fmt.Sprintf("HTTP %d", resp.StatusCode)
		} else {
			d.Passed = true
			d.Message = fmt.Sprintf("%d bytes", len(resp.Body))
		}

		if !d.Passed {
			missing = append(missing, name)
			result.Passed = false
		}
		result.Details = append(result.Details, d)
	}

	if result.Passed {
		result.Message = fmt.Sprintf("%d files present", len(in.Config.SEOFiles))
	} else {
		result.Message = fmt.Sprintf("Missing: %s", strings.Join(missing, ", "))
	}
	return result
}

func checkOGImage(ctx context.Context, in *Inputs) model.CheckResult {
	ref, ok := extract.Meta(in.Doc, "og:image")
	if !ok || ref == "" {
		return fail("og:image meta tag not found")
	}

	imageURL, err := util.ResolveURL(in.Config.LandingPage, ref)
	if err != nil {
		return fail("Invalid og:image URL %q: %v", ref, err)
	}

	code, err := in.Fetcher.HeadStatus(ctx, imageURL)
	if err != nil {
		return fail("%s: %v", imageURL, err)
	}
	if code != http.StatusOK {
		return fail("HTTP %d: %s", code, imageURL)
	}
	return pass("%s", imageURL)
}

func checkCanonicalURL(_ context.Context, in *Inputs) model.CheckResult {
	canonical, ok := extract.Meta(in.Doc, "canonical")
	if !ok {
		return fail("Canonical link not found")
	}

	expected := in.Config.CanonicalURL
	if canonical != expected {
		return fail("Found: %s, expected: %s", canonical, expected)
	}
	return pass("Canonical: %s", canonical)
}

func checkStructuredDataComplete(_ context.Context, in *Inputs) model.CheckResult {
	data, err := extract.JSONLD(in.Doc)
	missing := data.Missing()

	if err != nil {
		return fail("%v; missing: %s", err, strings.Join(missing, ", "))
	}
	if len(missing) > 0 {
		return fail("Missing: %s", strings.Join(missing, ", "))
	}
	return pass("All %d required fields present", len(model.RequiredStructuredDataFields))
}

func checkAllLinks(ctx context.Context, in *Inputs) model.CheckResult {
	links := sampleExternalLinks(extract.Links(in.Doc), in.Config.LinkSample)
	if len(links) == 0 {
		return pass("No external links to check")
	}

	limit := rate.Inf
	if in.Config.LinkRate > 0 {
		limit = rate.Limit(in.Config.LinkRate)
	}
	limiter := rate.NewLimiter(limit, 1)

	result := model.CheckResult{Passed: true}
	broken := 0
	for _, link := range links {
		d := probeLink(ctx, in, limiter, link)
		if !d.Passed {
			broken++
			result.Passed = false
		}
		result.Details = append(result.Details, d)
	}

	if result.Passed {
		result.Message = fmt.Sprintf("Checked %d unique links", len(links))
	} else {
		result.Message = fmt.Sprintf("%d broken of %d checked", broken, len(links))
	}
	return result
}

func probeLink(ctx context.Context, in *Inputs, limiter *rate.Limiter, link string) model.Detail {
	d := model.Detail{Label: describeLink(in.Config, link)}
	shown := util.Truncate(link, 60)

	if err := limiter.Wait(ctx); err != nil {
		d.Message = fmt.Sprintf("%s: %v", shown, err)
		return d
	}

	probeCtx, cancel := context.WithTimeout(ctx, in.Config.LinkTimeout)
	defer cancel()

	code, err := in.Fetcher.HeadStatus(probeCtx, link)
	switch {
	case err != nil:
		d.Message = fmt.Sprintf("%s: %s", shown, util.Truncate(err.Error(), 80))
	case code == http.StatusOK || code == http.StatusMovedPermanently || code == http.StatusFound:
		d.Passed = true
		d.Message = shown
	default:
		d.Message = fmt.Sprintf("HTTP %d: %s", code, shown)
	}

	if !d.Passed {
		log.Logger.Warn("broken link", zap.String("url", link), zap.String("reason", d.Message))
	}
	return d
}

// sampleExternalLinks keeps the first n distinct absolute http(s) links.
func sampleExternalLinks(links []string, n int) []string {
	seen := make(map[string]struct{})
	var sample []string
	for _, link := range links {
		if len(sample) >= n {
			break
		}
		if !util.IsExternalLink(link) {
			continue
		}
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		sample = append(sample, link)
	}
	return sample
}

// describeLink names well-known project URLs and falls back to the host.
func describeLink(cfg *config.Config, link string) string {
	repo := "github.com/" + cfg.Repo()
	landing := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(cfg.LandingPage, "https://"), "http://"), "/")

	known := []struct {
		pattern string
		label   string
	}{
		{repo + "/releases", "Releases page"},
		{repo + "/issues", "Issues page"},
		{repo, "GitHub repo"},
		{landing, "Landing page"},
	}

	for _, k := range known {
		if strings.Contains(link, k.pattern) {
			return k.label
		}
	}
	return util.Host(link)
}

func checkDynamicUpdateScript(_ context.Context, in *Inputs) model.CheckResult {
	script := extract.ScriptText(in.Doc)

	// The release URL may be built from a template, so the API host's
	// /repos prefix is enough to identify it.
	targetsAPI := strings.Contains(script, "API_URL") ||
		strings.Contains(script, "/repos/"+in.Config.Repo()) ||
		strings.Contains(script, util.Host(in.Config.GitHubAPI)+"/repos")
	hasFetch := strings.Contains(script, "fetch(") && targetsAPI
	hasUpdate := strings.Contains(script, "softwareVersion") && strings.Contains(script, "downloadUrl")

	switch {
	case hasFetch && hasUpdate:
		return pass("Dynamic update script present")
	case !hasFetch:
		return fail("No script fetches the release API")
	default:
		return fail("Script does not update softwareVersion and downloadUrl")
	}
}

func checkPagesBuilt(ctx context.Context, in *Inputs) model.CheckResult {
	resp, err := in.Fetcher.Get(ctx, in.Config.PagesURL())
	if err != nil {
		return fail("%v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fail("HTTP %d", resp.StatusCode)
	}

	var status model.PagesStatus
	if err := json.Unmarshal(resp.Body, &status); err != nil {
		return fail("Invalid pages status payload: %v", err)
	}

	if status.Status != "built" {
		return fail("Status: %s (expected: built)", status.Status)
	}
	return pass("Status: %s, URL: %s", status.Status, status.HTMLURL)
}

func checkReleaseTagFormat(_ context.Context, in *Inputs) model.CheckResult {
	tag := in.Release.TagName
	if !releaseTagPattern.MatchString(tag) {
		return fail("Tag %q does not match vX.Y.Z", tag)
	}
	return pass("Tag: %s", tag)
}
