// Package wpress reads and writes wpress archives, a simple uncompressed
// container format comparable to tar.
//
// An archive is a sequence of entries followed by a terminator:
//   - Header: a fixed 4377-byte block holding the file name, size, modification
//     time and parent directory, each zero-padded to a fixed width
//   - Payload: exactly size bytes of file content, directly after its header
//   - Terminator: one all-zero 4377-byte block marking the end of the archive
//
// There is no separate index, checksum or version tag. A Reader builds its
// index on open by reading each header and seeking past its payload, then
// extracts entries by seeking back into the open stream.
//
// # Writing
//
//	w, err := wpress.Create("site.wpress")
//	if err != nil {
//	    return err
//	}
//	if err := w.Add("./wp-content"); err != nil {
//	    return err
//	}
//	return w.Write()
//
// # Reading
//
//	r, err := wpress.Open("site.wpress")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	return r.ExtractFile("wp-config.php", "./restore")
//
// Entry paths come from the archive and are never trusted: every extraction
// goes through SanitizePath and an os.Root on the destination directory.
package wpress
