package ports

// EventBus diffuse les changements (bibliothèque, settings) aux vues live.
type EventBus interface {
	Publish(topic string, payload []byte)
	Subscribe() (ch <-chan Event, cancel func())
}

type Event struct {
	Topic   string
	Payload []byte
}
