package annotation

import (
	"log/slog"

	"github.com/inamate/annotator/internal/document"
	"github.com/inamate/annotator/internal/shape"
)

// ImportFeatures replaces the feature set. All existing shapes are dropped and
// the first feature is selected. Duplicate names are skipped.
func (s *Store) ImportFeatures(records []document.FeatureRecord) {
	s.features = make([]*Feature, 0, len(records))
	seen := make(map[string]bool, len(records))

	for _, rec := range records {
		if seen[rec.Name] {
			slog.Warn("skipping duplicate feature", "feature", rec.Name)
			continue
		}
		seen[rec.Name] = true
		s.features = append(s.features, newFeature(rec))
	}

	s.scratch = s.newScratch()
	s.featureIndex = 0
	s.drafting = false
	s.featureChanged()
}

// ImportAnnotations replaces every feature's shapes with the records keyed by
// its name. Features without an entry end up empty; malformed records are
// skipped. Selection returns to the first shape of the first feature.
func (s *Store) ImportAnnotations(anns document.Annotations) {
	for _, f := range s.features {
		f.Shapes = nil

		in, ok := anns[f.Name]
		if !ok {
			continue
		}

		for i, rec := range in.Shapes {
			sh, err := shape.FromRecord(rec)
			if err != nil {
				slog.Warn("skipping shape record", "feature", f.Name, "index", i, "error", err)
				continue
			}
			f.Shapes = append(f.Shapes, sh)
		}
	}

	for name := range anns {
		if !s.hasFeature(name) {
			slog.Debug("ignoring annotations for unknown feature", "feature", name)
		}
	}

	s.featureIndex = 0
	s.drafting = false
	s.featureChanged()
}

func (s *Store) hasFeature(name string) bool {
	for _, f := range s.features {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ExportAnnotations returns the valid shapes of every feature in the same
// format ImportAnnotations accepts.
func (s *Store) ExportAnnotations() document.Annotations {
	out := make(document.Annotations, len(s.features))

	for _, f := range s.features {
		records := make([]document.ShapeRecord, 0, len(f.Shapes))
		for _, sh := range f.Shapes {
			if sh == nil || !sh.IsValid() {
				continue
			}
			records = append(records, sh.Record())
		}
		out[f.Name] = document.FeatureAnnotations{Shapes: records}
	}

	return out
}
