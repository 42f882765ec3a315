// Package testhelpers provides reusable test utilities and helpers for testing the password policy cost tool.
package testhelpers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RTX3090Report is a current-format hashcat benchmark of two RTX 3090 cards
// covering MD5 (0) and NTLM (1000).
const RTX3090Report = `hashcat (v6.2.6) starting in benchmark mode

CUDA API (CUDA 12.0)
====================
* Device #1: NVIDIA GeForce RTX 3090, 23336/24268 MB, 82MCU
* Device #2: NVIDIA GeForce RTX 3090, 23336/24268 MB, 82MCU

OpenCL API (OpenCL 3.0 CUDA 12.0.89) - Platform #1 [NVIDIA Corporation]
========================================================================
* Device #3: NVIDIA GeForce RTX 3090, skipped
* Device #4: NVIDIA GeForce RTX 3090, skipped

Benchmark relevant options:
===========================
* --optimized-kernel-enable

-------------------
* Hash-Mode 0 (MD5)
-------------------

Speed.#1.........: 65079.1 MH/s (41.23ms) @ Accel:64 Loops:1024 Thr:1024 Vec:8
Speed.#2.........: 64980.0 MH/s (41.28ms) @ Accel:64 Loops:1024 Thr:1024 Vec:8
Speed.#*.........:   130.1 GH/s

----------------------
* Hash-Mode 1000 (NTLM)
----------------------

Speed.#1.........:   115.0 GH/s (23.20ms) @ Accel:64 Loops:1024 Thr:1024 Vec:8
Speed.#2.........:   114.0 GH/s (23.30ms) @ Accel:64 Loops:1024 Thr:1024 Vec:8
Speed.#*.........:   229.0 GH/s

Started: Sat Jan  7 10:00:00 2023
Stopped: Sat Jan  7 10:03:00 2023
`

// TeslaT4Report is a legacy-format hashcat benchmark of one Tesla T4 covering MD5 (0).
const TeslaT4Report = `hashcat (v5.1.0) starting in benchmark mode...

OpenCL Platform #1: NVIDIA Corporation
======================================
* Device #1: Tesla T4, 3769/15079 MB allocatable, 40MCU

Benchmark relevant options:
===========================
* --optimized-kernel-enable

Hashmode: 0 - MD5

Speed.#1.........: 20000.0 MH/s (63.02ms) @ Accel:64 Loops:512 Thr:1024 Vec:8
`

// MissingToolkitReport is a report whose only device line carries an error marker.
const MissingToolkitReport = `hashcat (v6.1.1) starting in benchmark mode...

* Device #1: CUDA SDK Toolkit installation NOT detected or incorrectly installed.
             CUDA SDK Toolkit installation required for proper device support and utilization
             Falling back to OpenCL Runtime

Hashmode: 0 - MD5

Speed.#1.........:  1234.5 MH/s
`

// OHCIndexHTML renders an onlinehashcrack benchmark index linking to links.
func OHCIndexHTML(links ...string) string {
	var sb strings.Builder

	sb.WriteString("<html><body><h1>Hashcat benchmarks</h1><ul>")

	for i, link := range links {
		fmt.Fprintf(&sb, `<li>GPU %d: <a href="%s">Full benchmark here</a></li>`, i+1, link)
	}

	sb.WriteString(`<li><a href="/about.php">About</a></li></ul></body></html>`)

	return sb.String()
}

// OHCReportHTML renders an onlinehashcrack benchmark page holding report.
func OHCReportHTML(report string) string {
	return `<html><body><div class="sidebar"><pre>not this</pre></div>` +
		`<div class="entry-content notopmargin"><p>Benchmark</p><pre>` + report + `</pre></div></body></html>`
}

// AzureIndexHTML renders the GPU sizes index with the size families in the
// second list of the main content.
func AzureIndexHTML(hrefs ...string) string {
	var sb strings.Builder

	sb.WriteString(`<html><body><nav><ul><li><a href="/nav">nav</a></li></ul></nav><main>`)
	sb.WriteString(`<ul><li><a href="overview">Overview</a></li></ul><ul>`)

	for _, href := range hrefs {
		fmt.Fprintf(&sb, `<li><a href="%s">%s</a></li>`, href, href)
	}

	sb.WriteString(`</ul></main></body></html>`)

	return sb.String()
}

// AzureSize is one row of an Azure size table.
type AzureSize struct {
	SKU string
	GPU string
}

// AzureSizeHTML renders a size page describing gpu with one table row per size.
func AzureSizeHTML(gpu string, sizes ...AzureSize) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<html><body><main><h1>Sizes</h1><p>Powered by NVIDIA %s GPUs.</p><table>`, gpu)
	sb.WriteString(`<thead><tr><th>Size</th><th>vCPU</th><th>Memory: GiB</th><th>GPU</th><th>GPU memory: GiB</th></tr></thead><tbody>`)

	for _, size := range sizes {
		fmt.Fprintf(&sb, `<tr><td>%s</td><td>6</td><td>112</td><td>%s</td><td>16</td></tr>`, size.SKU, size.GPU)
	}

	sb.WriteString(`</tbody></table></main></body></html>`)

	return sb.String()
}

// RetailItem is one item of an Azure retail prices response.
type RetailItem struct {
	UnitPrice        float64 `json:"unitPrice"`
	UnitOfMeasure    string  `json:"unitOfMeasure"`
	ArmSKUName       string  `json:"armSkuName"`
	EffectiveEndDate string  `json:"effectiveEndDate,omitempty"`
}

// RetailPricesJSON renders an Azure retail prices response.
func RetailPricesJSON(items ...RetailItem) string {
	return string(mustMarshal(map[string]any{
		"BillingCurrency": "USD",
		"Items":           items,
		"Count":           len(items),
	}))
}

// Gist is one gist of a GitHub gist listing.
type Gist struct {
	Description string
	Files       map[string]string // Files maps file name to raw URL.
}

// GistListJSON renders a GitHub gist listing.
func GistListJSON(gists ...Gist) string {
	list := make([]map[string]any, 0, len(gists))

	for i, gist := range gists {
		files := make(map[string]any, len(gist.Files))
		for name, raw := range gist.Files {
			files[name] = map[string]any{"filename": name, "raw_url": raw, "type": "text/plain"}
		}

		list = append(list, map[string]any{
			"id":          fmt.Sprintf("gist%d", i+1),
			"description": gist.Description,
			"public":      true,
			"files":       files,
		})
	}

	return string(mustMarshal(list))
}

// mustMarshal marshals v to JSON or panics in tests if it fails.
func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}

	return b
}
