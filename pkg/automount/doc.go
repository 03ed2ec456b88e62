// Package automount parses autofs configuration: the master map and the
// individual maps it references.
//
// # Overview
//
// The master map (usually /etc/auto.master) lists mount points and the map
// that governs each of them:
//
//	/home   /etc/auto.home   --timeout=60
//	/-      /etc/auto.direct
//
// A mount point of "/-" marks a direct map, whose keys are absolute paths.
// Any other mount point marks an indirect map, whose keys are relative to
// the mount point (often just the "*" wildcard).
//
// Each map associates a key with a remote location:
//
//	*       -rw,soft   nfs01:/export/home/&
//	scratch            nfs02:/scratch
//
// # Parsing
//
// [ReadMaster] and [ReadMap] parse a single file from an [io.Reader].
// [Loader] combines them: it reads the master map through a [Source],
// reads every referenced local map that is not excluded, and rewrites the
// mount directory of indirect map entries to the master mount point so the
// result is a single table of [MountEntry] rows.
//
//	l := automount.Loader{Source: automount.OSSource{}, Exclude: []string{"/etc/auto.misc"}}
//	entries, err := l.Load("/etc/auto.master")
//
// Map lines are not a strict two-column table: mount options may sit
// between the key and the location. The parser keeps the first column and
// takes the first remaining field that contains ":/" as the location.
//
// Empty maps are not an error; they yield no rows and are skipped by the
// loader.
package automount
