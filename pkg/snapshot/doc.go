// Package snapshot persists finished renders.
//
// A snapshot is the rendered HTML of the mount container plus the JSON
// fiber records of the tree that produced it. Save writes both through a
// Store: DirStore writes files under a directory, S3Store uploads objects
// to a bucket.
//
//	store, _ := snapshot.NewDirStore("snapshots")
//	keys, err := snapshot.Save(ctx, store, "home", html, tree.Snapshot())
package snapshot
