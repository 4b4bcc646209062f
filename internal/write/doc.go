// Package write builds biglist index files.
//
// Build scans a source stream once and cuts it into frames of PerFrame
// records; WriteFileAtomic persists the encoded result so readers never
// observe a partially written index.
package write
