// nolint: gochecknoglobals
package idgenerator

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	OutboxRecordIDLength       = 20
	StreamListenerIDLength     = 10
	EtcdNamespaceForTestLength = 10
)

// alphabet used in ID generation.
var alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

func OutboxRecordID() string {
	return gonanoid.MustGenerate(alphabet, OutboxRecordIDLength)
}

func StreamListenerID() string {
	return gonanoid.MustGenerate(alphabet, StreamListenerIDLength)
}

func EtcdNamespaceForTest() string {
	return gonanoid.MustGenerate(alphabet, EtcdNamespaceForTestLength)
}

func Random(length int) string {
	return gonanoid.MustGenerate(alphabet, length)
}
