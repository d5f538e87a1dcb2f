package layout

// Migrate walks a record up the strict forward chain v1 -> v2 -> v3.
// It returns false for versions below 1 or above VersionCurrent, which
// covers both corrupt data and records written by a newer engine. The
// input is not mutated.
func Migrate(rec *Record) (*Record, bool) {
	if rec == nil || rec.Version < Version1 || rec.Version > VersionCurrent {
		return nil, false
	}
	out := rec.clone()
	if out.Version == Version1 {
		out = migrateV1toV2(out)
	}
	if out.Version == Version2 {
		out = migrateV2toV3(out)
	}
	return out, true
}

// migrateV1toV2 carries elements forward and leaves the identity fields
// unset; v1 predates the identity registry.
func migrateV1toV2(rec *Record) *Record {
	rec.Version = Version2
	rec.IDMap = nil
	rec.Fingerprints = nil
	return rec
}

// migrateV2toV3 carries everything forward with no view state recorded.
func migrateV2toV3(rec *Record) *Record {
	rec.Version = Version3
	rec.ViewState = nil
	return rec
}
