package extractor

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/metascope/go-file-inspect/internal/logger"
	"github.com/metascope/go-file-inspect/internal/types"
)

// embeddedMetadataScanBytes bounds the PDF marker scan for the embedded
// metadata check.
const embeddedMetadataScanBytes = 2048

// Extensions treated as executable regardless of byte content.
var executableExtensions = map[string]bool{
	".exe": true, ".msi": true, ".bat": true, ".cmd": true, ".com": true,
	".scr": true, ".dll": true, ".app": true, ".dmg": true, ".pkg": true,
	".deb": true, ".rpm": true, ".appimage": true, ".sh": true, ".jar": true,
}

// Engine runs the full extraction pipeline over one FileHandle: identity
// capture, signature, format-specific extraction, then the universal
// analyzers. Every stage below the top level catches its own failure and
// degrades to field absence; only an unreadable byte buffer fails the run.
type Engine struct {
	classifier *Classifier
}

// NewEngine builds an engine with the default format extractor set.
func NewEngine() *Engine {
	return &Engine{classifier: NewClassifier()}
}

// Extract produces exactly one MetadataRecord for the handle. The record is
// a pure output value owned by the caller; the engine retains nothing.
func (e *Engine) Extract(ctx context.Context, handle *types.FileHandle) (*types.MetadataRecord, error) {
	if handle == nil || handle.Data == nil {
		return nil, ErrUnreadableInput
	}

	start := time.Now()
	sampler := NewByteSampler(handle.Data)

	record := &types.MetadataRecord{
		Identity: types.Identity{
			Name:      handle.Name,
			MIMEType:  handle.MIMEType,
			SizeBytes: handle.Size,
			Extension: handle.Extension(),
		},
	}
	if !handle.LastModified.IsZero() {
		modified := handle.LastModified
		record.Identity.LastModified = &modified
	}

	signature := Signature(sampler)
	record.Technical.Signature = &signature

	e.runFormatExtractor(ctx, handle, record)
	e.runUniversalAnalyzers(ctx, handle, sampler, record)

	elapsed := round2(float64(time.Since(start).Microseconds()) / 1000)
	record.Technical.ProcessingMillis = &elapsed

	logger.Debugf("extraction for %s finished in %.2fms", handle.Name, elapsed)
	return record, nil
}

// runFormatExtractor dispatches to at most one format extractor and
// converts its failure to field absence.
func (e *Engine) runFormatExtractor(ctx context.Context, handle *types.FileHandle, record *types.MetadataRecord) {
	formatExtractor := e.classifier.Classify(handle.Name, handle.MIMEType)
	if formatExtractor == nil {
		logger.Debugf("%v for %s (%s)", ErrClassificationMiss, handle.Name, handle.MIMEType)
		return
	}

	if err := formatExtractor.Extract(ctx, handle, record); err != nil {
		if errors.Is(err, ErrDecodeTimeout) {
			logger.Warningf("%s extractor timed out on %s: %v", formatExtractor.Name(), handle.Name, err)
		} else {
			logger.Debugf("%s extractor failed on %s: %v", formatExtractor.Name(), handle.Name, err)
		}
	}
}

// runUniversalAnalyzers computes the format-independent fields. The
// analyzers share the read-only buffer and have no data dependency on each
// other, so they run concurrently and join before assembly.
func (e *Engine) runUniversalAnalyzers(ctx context.Context, handle *types.FileHandle, sampler *ByteSampler, record *types.MetadataRecord) {
	group, _ := errgroup.WithContext(ctx)

	group.Go(func() error {
		digests := ComputeDigests(sampler.FullBytes())
		record.Security.SHA256 = &digests.SHA256
		record.Security.MD5 = &digests.MD5
		record.Security.SHA3256 = &digests.SHA3256
		record.Security.XXH64 = &digests.XXH64
		return nil
	})

	group.Go(func() error {
		entropy := Entropy(sampler)
		record.Technical.Entropy = &entropy
		encrypted := LikelyEncrypted(sampler, entropy)
		record.Technical.LikelyEncrypted = &encrypted
		return nil
	})

	group.Go(func() error {
		executable := executableExtensions[lowerExt(handle.Name)]
		record.Technical.Executable = &executable
		return nil
	})

	group.Go(func() error {
		embedded := hasEmbeddedMetadata(handle, sampler, record)
		record.Technical.HasEmbeddedMetadata = &embedded
		return nil
	})

	_ = group.Wait()
}

// hasEmbeddedMetadata is format-specific: a non-empty tag dictionary for
// images, an /Info or /Metadata marker within the first 2 KiB for PDFs,
// false for everything else.
func hasEmbeddedMetadata(handle *types.FileHandle, sampler *ByteSampler, record *types.MetadataRecord) bool {
	mt := strings.ToLower(handle.MIMEType)
	switch {
	case strings.HasPrefix(mt, "image/"):
		return len(record.RawTags) > 0
	case strings.Contains(mt, "pdf") || lowerExt(handle.Name) == ".pdf":
		head := sampler.Prefix(embeddedMetadataScanBytes)
		return bytes.Contains(head, []byte("/Info")) || bytes.Contains(head, []byte("/Metadata"))
	}
	return false
}
