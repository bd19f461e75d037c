package badger

import (
	"bytes"
	"encoding/binary"

	"github.com/poiesic/issuematch/core"
)

// Key layout: docrec:<namespace>:<8-byte big-endian id>
// Namespaces never contain ':' (see core.ValidateNamespace), so the first
// separator after the prefix ends the namespace.
const (
	documentPrefix = "docrec"
	keySeparator   = ':'
	idSize         = 8
)

// makeNamespacePrefix generates the prefix shared by all documents of a namespace.
func makeNamespacePrefix(namespace string) []byte {
	buf := make([]byte, 0, len(documentPrefix)+len(namespace)+2)
	buf = append(buf, documentPrefix...)
	buf = append(buf, keySeparator)
	buf = append(buf, namespace...)
	return append(buf, keySeparator)
}

// makeDocumentKey generates a key for a document.
// IDs are written big-endian so iteration order is ID order.
func makeDocumentKey(namespace string, id core.ID) []byte {
	prefix := makeNamespacePrefix(namespace)
	buf := make([]byte, len(prefix)+idSize)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// allDocumentsPrefix matches every document key.
func allDocumentsPrefix() []byte {
	return append([]byte(documentPrefix), keySeparator)
}

// parseDocumentKey splits a document key into namespace and ID.
func parseDocumentKey(key []byte) (string, core.ID, bool) {
	rest, ok := bytes.CutPrefix(key, allDocumentsPrefix())
	if !ok {
		return "", 0, false
	}
	sep := bytes.IndexByte(rest, keySeparator)
	if sep <= 0 || len(rest)-sep-1 != idSize {
		return "", 0, false
	}
	return string(rest[:sep]), core.ID(binary.BigEndian.Uint64(rest[sep+1:])), true
}
