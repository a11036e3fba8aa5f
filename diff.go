package transmem

// SegmentDiff classifies the segments of a new document revision against an
// old one. Unchanged segments will be reused from the translation memory;
// added and modified segments are the ones that will cost provider calls.
type SegmentDiff struct {
	// Added contains segments that are new in the revision.
	Added []string

	// Removed contains segments no longer present.
	Removed []string

	// Unchanged contains segments present in both revisions.
	Unchanged []string

	// Modified contains old/new segment pairs that are similar enough to
	// be the same sentence after an edit.
	Modified []ModifiedSegment
}

// ModifiedSegment pairs an old segment with its edited form.
type ModifiedSegment struct {
	Old string
	New string
}

// DiffStats summarizes a SegmentDiff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary counts for the diff.
func (d *SegmentDiff) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges reports whether the revision needs any fresh translation.
func (d *SegmentDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the segments a fresh translation run would send
// to the provider: added segments plus the new side of modified ones.
func (d *SegmentDiff) NeedsTranslation() []string {
	result := make([]string, 0, len(d.Added)+len(d.Modified))
	result = append(result, d.Added...)
	for _, m := range d.Modified {
		result = append(result, m.New)
	}
	return result
}

// DiffSegments compares two segment sequences by content hash. Segments with
// equal hashes are unchanged; leftovers on either side whose similarity
// reaches modifiedThreshold are paired as modified, the rest are added or
// removed. Pass the output of Split for both revisions.
func DiffSegments(oldSegments, newSegments []string, modifiedThreshold float64) *SegmentDiff {
	result := &SegmentDiff{}

	oldByHash := make(map[string]string, len(oldSegments))
	for _, seg := range oldSegments {
		oldByHash[SegmentHash(seg)] = seg
	}
	newByHash := make(map[string]string, len(newSegments))
	for _, seg := range newSegments {
		newByHash[SegmentHash(seg)] = seg
	}

	var removed []string
	for _, seg := range oldSegments {
		if _, exists := newByHash[SegmentHash(seg)]; exists {
			result.Unchanged = append(result.Unchanged, seg)
		} else {
			removed = append(removed, seg)
		}
	}

	var added []string
	for _, seg := range newSegments {
		if _, exists := oldByHash[SegmentHash(seg)]; !exists {
			added = append(added, seg)
		}
	}

	// Pair leftovers whose similarity clears the threshold as edits.
	matched := make(map[int]bool)
	for _, oldSeg := range removed {
		best, bestScore := -1, 0.0
		for i, newSeg := range added {
			if matched[i] {
				continue
			}
			if score := Ratio(oldSeg, newSeg); score >= modifiedThreshold && score > bestScore {
				best, bestScore = i, score
			}
		}
		if best >= 0 {
			result.Modified = append(result.Modified, ModifiedSegment{Old: oldSeg, New: added[best]})
			matched[best] = true
		} else {
			result.Removed = append(result.Removed, oldSeg)
		}
	}
	for i, seg := range added {
		if !matched[i] {
			result.Added = append(result.Added, seg)
		}
	}

	return result
}
