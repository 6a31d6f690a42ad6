package config

import (
	"os"
	"strings"
)

// Getenv returns the value of the environment variable or a default.
func Getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// KafkaBrokers parses the Kafka broker list from the environment.
func KafkaBrokers() []string {
	return strings.Split(Getenv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9093"), ",")
}

// KafkaTopic returns the topic carrying collected posts.
func KafkaTopic() string {
	return Getenv("KAFKA_TOPIC_POSTS", "post-processing-requests")
}

// KafkaGroupID returns the consumer group id for the pipeline worker.
func KafkaGroupID() string {
	return Getenv("KAFKA_CONSUMER_GROUP_ID", "shortreel-pipeline")
}
