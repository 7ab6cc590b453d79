package shot

import (
	"sort"
	"strconv"
	"strings"

	"github.com/binzume/curtainfire/mmd"
	"github.com/binzume/curtainfire/motion"
)

// timelineKey identifies the visibility timeline of a group: its distinct
// spawn frames and its distinct death frames. A shot still alive contributes
// death frame -1.
func (g *group) timelineKey() string {
	spawns := map[int]bool{}
	deaths := map[int]bool{}
	for _, s := range g.shots {
		spawns[s.spawn] = true
		deaths[s.DeathFrame()] = true
	}
	var sb strings.Builder
	writeFrameSet(&sb, spawns)
	sb.WriteByte('|')
	writeFrameSet(&sb, deaths)
	return sb.String()
}

func writeFrameSet(sb *strings.Builder, set map[int]bool) {
	frames := make([]int, 0, len(set))
	for f := range set {
		frames = append(frames, f)
	}
	sort.Ints(frames)
	for i, f := range frames {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(f))
	}
}

// mergeTimelines lets groups with identical timelines share one visibility
// morph. The first group of each class keeps its morph, which then covers the
// materials of the whole class; the other morphs and their keyframes are
// removed. It returns the number of removed morphs.
func mergeTimelines(doc *mmd.Document, rec *motion.Recorder, groups []*group) int {
	classes := map[string][]*group{}
	var keys []string
	for _, g := range groups {
		if g.morph == nil || len(g.shots) == 0 {
			continue
		}
		k := g.timelineKey()
		if _, ok := classes[k]; !ok {
			keys = append(keys, k)
		}
		classes[k] = append(classes[k], g)
	}

	removed := map[*mmd.Morph]bool{}
	names := map[string]bool{}
	for _, k := range keys {
		class := classes[k]
		if len(class) < 2 {
			continue
		}
		keep := class[0].morph

		seen := map[int]bool{}
		var elements []mmd.MorphElement
		for _, g := range class {
			for _, m := range g.materials {
				if !seen[m] {
					seen[m] = true
					elements = append(elements, visibilityElement(m))
				}
			}
		}
		keep.Elements = elements

		for _, g := range class[1:] {
			removed[g.morph] = true
			names[g.morph.Name] = true
			g.morph = keep
		}
	}
	if len(removed) == 0 {
		return 0
	}
	rec.RemoveMorphs(names)

	morphs := doc.Morphs[:0]
	for _, m := range doc.Morphs {
		if !removed[m] {
			morphs = append(morphs, m)
		}
	}
	for i := len(morphs); i < len(doc.Morphs); i++ {
		doc.Morphs[i] = nil
	}
	doc.Morphs = morphs
	return len(removed)
}
