package clean

// Exports for black-box tests.

// WithChatCompleter injects a mock chat completer into an OpenAIInvoker.
var WithChatCompleter = withChatCompleter
