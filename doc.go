// Package biglist provides random access to the records of large
// delimiter-separated text files without reading them into memory.
//
// On Open, biglist maintains a small side index next to the source file
// (<source>.index) holding the byte span of every frame of PerFrame records.
// The index is generated the first time a file is opened and rebuilt whenever
// the source is modified or the requested configuration changes. Reading a
// record seeks directly to its frame; the most recently decoded frame is kept
// in memory, so sequential access touches the source once per frame.
//
// # Quick Start
//
//	l, err := biglist.Open(ctx, "words.txt")
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//
//	fmt.Println("total lines:", l.Len())
//	first, _ := l.Get(0)
//	last, _ := l.Get(-1)
//	pick, _ := l.Random()
//
// # Index format
//
// The index is a 20-byte little-endian header (magic "BigList\x01", lines
// per frame as uint16, total lines as uint64, the separator byte, one padding
// byte) followed by one uint32 byte span per frame.
//
// # Staleness
//
// An existing index is reused only if the source's modification time is
// strictly earlier than the index's and the header matches the requested
// lines per frame and separator. Content is not hashed: rewriting the source
// with identical bytes triggers a rebuild, and a change made within the
// filesystem's timestamp granularity of the index write may go unnoticed.
//
// A List is not safe for concurrent use.
package biglist
