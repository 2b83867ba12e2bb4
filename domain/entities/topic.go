package entities

import "fmt"

// Topic selects the domain-specific model resource used for recognition.
type Topic int32

const (
	TopicGeneric Topic = iota
	TopicBanking
	TopicTelco
	TopicInsurance
)

var topicNames = map[Topic]string{
	TopicGeneric:   "GENERIC",
	TopicBanking:   "BANKING",
	TopicTelco:     "TELCO",
	TopicInsurance: "INSURANCE",
}

// ParseTopic validates a wire-level topic value.
func ParseTopic(value int32) (Topic, error) {
	topic := Topic(value)
	if _, ok := topicNames[topic]; !ok {
		return 0, fmt.Errorf("invalid value '%d' for topic resource", value)
	}
	return topic, nil
}

// ParseTopicName resolves a topic by its name, as given on the command line.
func ParseTopicName(name string) (Topic, error) {
	for topic, topicName := range topicNames {
		if topicName == name {
			return topic, nil
		}
	}
	return 0, fmt.Errorf("invalid value '%s' for topic resource", name)
}

func (t Topic) String() string {
	if name, ok := topicNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOPIC(%d)", int32(t))
}
