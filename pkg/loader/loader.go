package loader

import (
	"context"
	"crypto/sha1"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/npackd/npackd-go/pkg/job"
	"github.com/npackd/npackd-go/pkg/model"
)

// serializationVersion is mixed into the aggregate key so a change to how
// this loader serializes/merges documents invalidates the full-text index
// even when every upstream byte is unchanged.
const serializationVersion = byte(1)

// WellKnown lists the bootstrap packages required present
// before any external load, created only if the catalogue does not already
// hold them.
var WellKnown = []model.Package{
	{Name: "com.microsoft.Windows", Title: "Windows"},
	{Name: "com.microsoft.Windows32", Title: "Windows (32-bit)"},
	{Name: "com.microsoft.Windows64", Title: "Windows (64-bit)"},
	{Name: "com.googlecode.windows-package-manager.Npackd", Title: "Npackd"},
	{Name: "com.oracle.JRE", Title: "Java Runtime Environment"},
	{Name: "com.oracle.JRE64", Title: "Java Runtime Environment (64-bit)"},
	{Name: "com.oracle.JDK", Title: "Java Development Kit"},
	{Name: "com.oracle.JDK64", Title: "Java Development Kit (64-bit)"},
	{Name: "com.microsoft.DotNetRedistributable", Title: ".NET Framework"},
	{Name: "com.microsoft.WindowsInstaller", Title: "Windows Installer"},
	{Name: "com.microsoft.MSXML", Title: "MSXML"},
}

// Result is the outcome of a Load: every document's decoded contents,
// merged in, plus the aggregate key gating index reuse.
type Result struct {
	Licenses []model.License
	Packages []model.Package
	Versions []model.PackageVersion
	AggregateKey string
}

// fetchOutcome is one URL's fetch+parse result, collected concurrently and
// merged back in URL order afterwards.
type fetchOutcome struct {
	doc *ParsedDocument
	sum string
	err error
}

// Load fetches and parses every repository URL, bounded to maxConcurrent
// concurrent fetches via golang.org/x/sync/semaphore (pkg/config.Settings.
// MaxConcurrent), then merges the results back in URL order with "new
// names/keys only within a single load" semantics (duplicates across URLs
// in the same Load call are discarded silently) and computes the aggregate
// SHA-1 key over every per-URL digest plus the serialization version byte.
// The merge order is always by URL index, not completion order, so the
// aggregate key stays deterministic regardless of fetch scheduling.
func Load(ctx context.Context, f *Fetcher, urls []string, maxConcurrent int, j *job.Job) (*Result, error) {
	result := &Result{}
	result.Packages = append(result.Packages, WellKnown...)

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	sem := semaphore.NewWeighted(int64(maxConcurrent))
	outcomes := make([]fetchOutcome, len(urls))

	var wg sync.WaitGroup
	var fetchErr error
	var mu sync.Mutex
	for i, repoURL := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			if fetchErr == nil {
				fetchErr = err
			}
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(i int, repoURL string) {
			defer wg.Done()
			defer sem.Release(1)

			body, sum, err := f.Fetch(ctx, repoURL)
			if err != nil {
				outcomes[i] = fetchOutcome{err: err}
				return
			}
			doc, err := Parse(body)
			if err != nil {
				outcomes[i] = fetchOutcome{err: fmt.Errorf("%s: %w", repoURL, err)}
				return
			}
			outcomes[i] = fetchOutcome{doc: doc, sum: sum}
		}(i, repoURL)
	}
	wg.Wait()
	if fetchErr != nil {
		return nil, fetchErr
	}

	seenLicense := map[string]bool{}
	seenPackage := map[string]bool{}
	for _, p := range result.Packages {
		seenPackage[p.Name] = true
	}
	seenVersion := map[model.PackageVersionKey]bool{}

	digest := sha1.New()
	digest.Write([]byte{serializationVersion})

	sub := j
	for i, repoURL := range urls {
		if sub != nil {
			if err := sub.CheckBoundary(); err != nil {
				return nil, err
			}
			sub.Tick("loading", i, len(urls))
		}

		outcome := outcomes[i]
		if outcome.err != nil {
			return nil, outcome.err
		}
		digest.Write([]byte(outcome.sum))

		doc := outcome.doc
		for _, l := range doc.Licenses {
			if seenLicense[l.Name] {
				continue
			}
			seenLicense[l.Name] = true
			result.Licenses = append(result.Licenses, l)
		}
		for _, p := range doc.Packages {
			if seenPackage[p.Name] {
				continue
			}
			seenPackage[p.Name] = true
			p.Repository = repoURL
			result.Packages = append(result.Packages, p)
		}
		for _, v := range doc.Versions {
			key := model.PackageVersionKey{Name: v.PackageName, Version: v.Version.Normalize().String()}
			if seenVersion[key] {
				continue
			}
			seenVersion[key] = true
			result.Versions = append(result.Versions, v)
		}
	}

	result.AggregateKey = fmt.Sprintf("%x", digest.Sum(nil))
	return result, nil
}
