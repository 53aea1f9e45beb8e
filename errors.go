package orbgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/frames"
	"github.com/hupe1980/orbgo/interp"
)

var (
	// ErrNoInterpolationData is returned when no loaded segment covers the
	// requested epoch.
	ErrNoInterpolationData = interp.ErrNoInterpolationData

	// ErrMaxTreeDepth is returned when a frame chain exceeds MaxTreeDepth hops.
	ErrMaxTreeDepth = errors.New("maximum frame tree depth exceeded")

	// ErrTranslationOrigin is returned when two ephemeris chains share no node.
	ErrTranslationOrigin = errors.New("no common translation origin")

	// ErrNoOrientationData is returned when no BPC segment, Euler parameter
	// or planetary constant orients a frame.
	ErrNoOrientationData = errors.New("no orientation data")

	// ErrLightTimeLookupFailed is returned when the target cannot be
	// evaluated at the light-time shifted epoch.
	ErrLightTimeLookupFailed = errors.New("light time correction lookup failed")

	// ErrAliasNotFound is returned when no kernel is loaded under an alias.
	ErrAliasNotFound = errors.New("kernel alias not found")

	// ErrDuplicateAlias is returned when loading a kernel under an alias
	// that is already in use.
	ErrDuplicateAlias = errors.New("duplicate kernel alias")

	// ErrKindMismatch is returned when swapping a kernel for one of another kind.
	ErrKindMismatch = errors.New("kernel kind mismatch")

	// ErrNoEphemerisLoaded is returned by translations when no SPK is loaded.
	ErrNoEphemerisLoaded = errors.New("no ephemeris loaded")

	// ErrNoOrientationLoaded is returned by rotations between non-inertial
	// frames when no orientation data of any kind is loaded.
	ErrNoOrientationLoaded = errors.New("no orientation data loaded")

	// ErrChecksumMismatch is returned when a meta-almanac file does not match
	// its declared CRC32.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrFrameDataNotFound is returned when no planetary constants describe a frame.
	ErrFrameDataNotFound = errors.New("frame data not found")

	// ErrUnknownContent is returned when loaded bytes are neither a DAF
	// kernel nor a dataset document.
	ErrUnknownContent = errors.New("unrecognized kernel content")

	// ErrGitLFSPointer is returned when a git-lfs pointer file is loaded in
	// place of the kernel it points to.
	ErrGitLFSPointer = errors.New("git-lfs pointer file, not a kernel: fetch it with git lfs pull")

	// ErrUnresolvedURI is returned when a meta-almanac URI matches no
	// registered blob store.
	ErrUnresolvedURI = errors.New("no blob store for URI")

	// ErrResidencyBudget is returned when a kernel does not fit the resident
	// memory budget of the resource controller.
	ErrResidencyBudget = errors.New("kernel exceeds resident memory budget")
)

// TreeDepthError reports a chain from ID towards the root that is longer
// than MaxTreeDepth.
type TreeDepthError struct {
	Tree  string // "ephemeris" or "orientation"
	ID    int32
	Epoch astro.Epoch
}

func (e *TreeDepthError) Error() string {
	return fmt.Sprintf("%s chain from %d exceeds %d hops at %s", e.Tree, e.ID, MaxTreeDepth, e.Epoch)
}

func (e *TreeDepthError) Unwrap() error { return ErrMaxTreeDepth }

// TranslationOriginError reports two frames whose ephemeris chains never meet.
type TranslationOriginError struct {
	From  frames.Frame
	To    frames.Frame
	Epoch astro.Epoch
}

func (e *TranslationOriginError) Error() string {
	return fmt.Sprintf("no common ephemeris origin between %s and %s at %s", e.From, e.To, e.Epoch)
}

func (e *TranslationOriginError) Unwrap() error { return ErrTranslationOrigin }

// OrientationError reports a frame that nothing loaded can orient.
type OrientationError struct {
	ID    int32
	Epoch astro.Epoch
}

func (e *OrientationError) Error() string {
	if name, ok := frames.OrientationName(e.ID); ok {
		return fmt.Sprintf("no orientation data for %s (%d) at %s", name, e.ID, e.Epoch)
	}
	return fmt.Sprintf("no orientation data for frame %d at %s", e.ID, e.Epoch)
}

func (e *OrientationError) Unwrap() error { return ErrNoOrientationData }

// LightTimeError reports a failed aberration correction. It matches both
// ErrLightTimeLookupFailed and the underlying lookup error.
type LightTimeError struct {
	Epoch        astro.Epoch
	ShiftedEpoch astro.Epoch
	Aberration   astro.Aberration
	cause        error
}

func (e *LightTimeError) Error() string {
	return fmt.Sprintf("%s correction at %s: target lookup at %s failed: %v", e.Aberration, e.Epoch, e.ShiftedEpoch, e.cause)
}

func (e *LightTimeError) Unwrap() []error { return []error{ErrLightTimeLookupFailed, e.cause} }

// AliasError reports an alias that is missing or already taken.
type AliasError struct {
	Alias string
	cause error
}

func (e *AliasError) Error() string {
	return fmt.Sprintf("%v: %q", e.cause, e.Alias)
}

func (e *AliasError) Unwrap() error { return e.cause }

// ChecksumError reports a meta-almanac file whose CRC32 does not match.
type ChecksumError struct {
	URI      string
	Expected uint32
	Actual   uint32
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum mismatch for %s: expected %#08x, got %#08x", e.URI, e.Expected, e.Actual)
}

func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// LoadError wraps any failure to load a kernel with the alias it was
// loaded under.
type LoadError struct {
	Alias string
	cause error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %q: %v", e.Alias, e.cause)
}

func (e *LoadError) Unwrap() error { return e.cause }

func loadError(alias string, err error) error {
	if err == nil {
		return nil
	}
	var le *LoadError
	if errors.As(err, &le) {
		return err
	}
	return &LoadError{Alias: alias, cause: err}
}
