// Package chat provides room-scoped message posting and history replay.
//
// A message posted through the Service is persisted first and then fanned
// out to every live connection in the target room, including the sender.
// History returns the most recent window of a room's messages in
// chronological order so a client can replay the conversation.
//
// # Usage
//
//	store := chat.NewPostgresStorage(pool)
//	svc := chat.NewService(store, hub, chat.WithLogger(log))
//
//	msg, err := svc.Post(ctx, chat.PostInput{
//		Room:   "support",
//		Sender: "alice",
//		Role:   chat.RoleProducer,
//		Text:   "hello",
//	})
//
// Persistence failures abort the post before any delivery happens, so a
// message is never seen live without also being in the history.
package chat
