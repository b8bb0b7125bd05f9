// Package delivery sends converted messages to recipient lists.
//
// Senders implement [Sender]. [NewPostmarkSender] delivers through the
// Postmark API; [NewDevSender] writes each message to a directory as an
// .html body plus a .json envelope, for previewing a run without sending.
//
// [Dispatch] fans a single message out to a recipient list:
//
//	recipients, err := delivery.LoadRecipients("list.csv")
//	summary, err := delivery.Dispatch(ctx, sender, delivery.Message{
//	    Subject:  "October news",
//	    HTMLBody: html,
//	    Tag:      "newsletter",
//	}, recipients, delivery.ModeIndividual, 4)
//
// In batch mode recipients share the To header in chunks of
// [MaxBatchRecipients]. In individual mode each recipient gets its own
// message and sends run on a worker pool.
package delivery
