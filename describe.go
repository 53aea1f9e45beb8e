package orbgo

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/orbgo/astro"
	"github.com/hupe1980/orbgo/daf"
	"github.com/hupe1980/orbgo/frames"
)

// Domain is the closed epoch interval covered by the segments of one id.
type Domain struct {
	Start astro.Epoch
	End   astro.Epoch
}

// Contains reports whether epoch lies in the domain.
func (d Domain) Contains(epoch astro.Epoch) bool {
	return !epoch.Before(d.Start) && !epoch.After(d.End)
}

func (d Domain) String() string {
	return fmt.Sprintf("[%s, %s]", d.Start, d.End)
}

// KernelInfo describes one loaded kernel.
type KernelInfo struct {
	Alias    string
	Kind     string
	Checksum uint32
	Size     int
	Mapped   bool
	Segments int
}

// NumLoadedSPK returns the number of loaded ephemeris kernels.
func (a *Almanac) NumLoadedSPK() int { return len(a.spk) }

// NumLoadedBPC returns the number of loaded orientation kernels.
func (a *Almanac) NumLoadedBPC() int { return len(a.bpc) }

// Kernels returns the loaded kernels, ephemerides first, each in load order.
func (a *Almanac) Kernels() []KernelInfo {
	out := make([]KernelInfo, 0, len(a.spk)+len(a.bpc))
	for _, k := range slices.Concat(a.spk, a.bpc) {
		out = append(out, KernelInfo{
			Alias:    k.alias,
			Kind:     k.daf.Kind().String(),
			Checksum: k.daf.Checksum(),
			Size:     k.daf.Size(),
			Mapped:   k.heapCap == 0,
			Segments: len(k.daf.Summaries()),
		})
	}
	return out
}

// SPKSummaries returns the ephemeris segments of id in search order: most
// recently loaded kernel first, each kernel's segments by start epoch.
func (a *Almanac) SPKSummaries(id int32) []daf.Summary {
	return summaries(a.spk, id)
}

// BPCSummaries returns the orientation segments of frame id in search order.
func (a *Almanac) BPCSummaries(id int32) []daf.Summary {
	return summaries(a.bpc, id)
}

func summaries(list []*kernel, id int32) []daf.Summary {
	var out []daf.Summary
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i].daf.SegmentsFor(id)...)
	}
	return out
}

// SPKDomain returns the union of the epochs covered by the ephemeris
// segments of id.
func (a *Almanac) SPKDomain(id int32) (Domain, error) {
	return domain(a.spk, daf.KindSPK, id)
}

// BPCDomain returns the union of the epochs covered by the orientation
// segments of frame id.
func (a *Almanac) BPCDomain(id int32) (Domain, error) {
	return domain(a.bpc, daf.KindBPC, id)
}

func domain(list []*kernel, kind daf.Kind, id int32) (Domain, error) {
	var (
		d     Domain
		found bool
	)
	for _, k := range list {
		start, end, ok := k.daf.Domain(id)
		if !ok {
			continue
		}
		if !found {
			d = Domain{Start: start, End: end}
			found = true
			continue
		}
		if start.Before(d.Start) {
			d.Start = start
		}
		if end.After(d.End) {
			d.End = end
		}
	}
	if !found {
		return Domain{}, fmt.Errorf("%w: no %s segment for %d", ErrNoInterpolationData, kind, id)
	}
	return d, nil
}

// SPKDomains returns the domain of every body with ephemeris data.
func (a *Almanac) SPKDomains() map[int32]Domain {
	return domains(a.spk, daf.KindSPK)
}

// BPCDomains returns the domain of every frame with orientation data.
func (a *Almanac) BPCDomains() map[int32]Domain {
	return domains(a.bpc, daf.KindBPC)
}

func domains(list []*kernel, kind daf.Kind) map[int32]Domain {
	out := make(map[int32]Domain)
	for _, k := range list {
		for _, id := range k.daf.IDs() {
			if _, ok := out[id]; ok {
				continue
			}
			if d, err := domain(list, kind, id); err == nil {
				out[id] = d
			}
		}
	}
	return out
}

// DescribeOptions selects what Describe prints.
type DescribeOptions struct {
	// IDs restricts the segment tables to these body or frame ids.
	IDs []int32
	// SkipSPK omits the ephemeris kernels.
	SkipSPK bool
	// SkipBPC omits the orientation kernels.
	SkipBPC bool
	// SkipDatasets omits the planetary constants and Euler parameters.
	SkipDatasets bool
}

// Describe writes a table of every loaded segment and dataset entry to w.
func (a *Almanac) Describe(w io.Writer, opts DescribeOptions) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	keep := func(id int32) bool { return len(opts.IDs) == 0 || slices.Contains(opts.IDs, id) }

	if !opts.SkipSPK {
		for _, k := range a.spk {
			fmt.Fprintf(tw, "%s %q (%s)\n", k.daf.Kind(), k.alias, describeSize(k.daf.Size()))
			fmt.Fprintln(tw, "Name\tTarget\tCenter\tFrame\tStart (TDB)\tEnd (TDB)\tDuration\tType\t")
			for _, s := range k.daf.Summaries() {
				if !keep(s.ID) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					s.Name, bodyName(s.ID), bodyName(s.Center), orientationName(s.Frame),
					s.Start(), s.End(), describeDuration(s), s.DataType)
			}
			fmt.Fprintln(tw)
		}
	}

	if !opts.SkipBPC {
		for _, k := range a.bpc {
			fmt.Fprintf(tw, "%s %q (%s)\n", k.daf.Kind(), k.alias, describeSize(k.daf.Size()))
			fmt.Fprintln(tw, "Name\tFrame\tInertial frame\tStart (TDB)\tEnd (TDB)\tDuration\tType\t")
			for _, s := range k.daf.Summaries() {
				if !keep(s.ID) {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
					s.Name, orientationName(s.ID), orientationName(s.Frame),
					s.Start(), s.End(), describeDuration(s), s.DataType)
			}
			fmt.Fprintln(tw)
		}
	}

	if !opts.SkipDatasets {
		if a.planetary.Len() > 0 {
			fmt.Fprintln(tw, "Planetary constants")
			for _, p := range a.planetary.Entries() {
				if keep(p.ID) {
					fmt.Fprintf(tw, "%d\t%s\t\n", p.ID, p)
				}
			}
			fmt.Fprintln(tw)
		}
		if a.euler.Len() > 0 {
			fmt.Fprintln(tw, "Euler parameters")
			for _, e := range a.euler.Entries() {
				if keep(e.ID) {
					fmt.Fprintf(tw, "%d\t%s\t\n", e.ID, e)
				}
			}
			fmt.Fprintln(tw)
		}
	}
	return tw.Flush()
}

func describeDuration(s daf.Summary) string {
	days := (s.EndEpoch - s.StartEpoch) / astro.SecondsPerDay
	return fmt.Sprintf("%.3f days", days)
}

func describeSize(n int) string {
	return humanize.IBytes(uint64(n))
}

func bodyName(id int32) string {
	if name, ok := frames.BodyName(id); ok {
		return fmt.Sprintf("%s (%d)", name, id)
	}
	return fmt.Sprint(id)
}

func orientationName(id int32) string {
	if name, ok := frames.OrientationName(id); ok {
		return fmt.Sprintf("%s (%d)", name, id)
	}
	return fmt.Sprint(id)
}

func (a *Almanac) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Almanac: %d SPK, %d BPC", len(a.spk), len(a.bpc))
	if n := a.planetary.Len(); n > 0 {
		fmt.Fprintf(&b, ", %d planetary constants", n)
	}
	if n := a.euler.Len(); n > 0 {
		fmt.Fprintf(&b, ", %d Euler parameters", n)
	}
	if len(a.spk) > 0 {
		fmt.Fprintf(&b, " (%d bodies, root %s)", len(a.SPKDomains()), bodyName(a.root))
	}
	return b.String()
}
