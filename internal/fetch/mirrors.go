// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import "strings"

// mirrorURLs returns the ordered list of alternative URL templates for a
// primary URL. Sources with unreliable direct links wrap documents behind
// several URL shapes; trying a small fixed list recovers most of them.
func mirrorURLs(primary, source string) []string {
	if strings.Contains(primary, "arxiv.org") {
		return arxivMirrors(primary)
	}
	if source == "web" || source == "pubmed" {
		return repositoryMirrors(primary)
	}
	return nil
}

// arxivMirrors maps an arxiv.org URL to its PDF endpoint and the export
// mirror, which stays up during main-site maintenance.
func arxivMirrors(primary string) []string {
	pdfURL := strings.Replace(primary, "/abs/", "/pdf/", 1)
	var mirrors []string
	if pdfURL != primary {
		mirrors = append(mirrors, pdfURL)
	}
	if !strings.Contains(pdfURL, "export.arxiv.org") {
		mirrors = append(mirrors, strings.Replace(pdfURL, "arxiv.org", "export.arxiv.org", 1))
	}
	return mirrors
}

// repositoryMirrors covers the common institutional-repository URL shapes:
// a landing page whose actual file hides behind /download, /pdf, or a
// download query parameter.
func repositoryMirrors(primary string) []string {
	if strings.HasSuffix(strings.ToLower(primary), ".pdf") {
		return nil
	}
	base := strings.TrimRight(primary, "/")
	return []string{
		base + "/download",
		base + "/pdf",
		base + "?download=1",
	}
}
