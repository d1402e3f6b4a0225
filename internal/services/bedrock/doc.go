// Package bedrock calls Anthropic models through the AWS Bedrock runtime
// InvokeModel API using the messages request format.
package bedrock
