package repository

import (
	"context"
	"time"

	"school_chat_service/internal/chat/domain"
	"school_chat_service/pkg/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository durable, append-only store of chat messages. Counts are
// always derived by query, never kept denormalized.
type MessageRepository interface {
	// Insert persist a new message, assigning its id and server timestamp
	Insert(ctx context.Context, msg *domain.Message) error
	// FindConversation both directions between the two principals, scoped to
	// one student, ordered by created_at ascending
	FindConversation(ctx context.Context, userA, userB, studentID string) ([]domain.Message, error)
	// MarkReadByIDs conditional bulk read-update for the listed message ids;
	// already-read messages are untouched. Returns the number flipped.
	MarkReadByIDs(ctx context.Context, receiverID, senderID string, ids []primitive.ObjectID, readAt time.Time) (int64, error)
	// MarkConversationRead same conditional update across a whole conversation
	MarkConversationRead(ctx context.Context, receiverID, senderID, studentID string, readAt time.Time) (int64, error)
	// UnreadForConversation unread count + latest message preview of the conversation
	UnreadForConversation(ctx context.Context, receiverID, counterpartID, studentID string) (*domain.ConversationUnread, error)
	// UnreadSummary unread messages grouped per counterpart for one student context
	UnreadSummary(ctx context.Context, receiverID, studentID string) ([]domain.CounterpartUnread, error)
}

type chatMessageRepository struct {
	coll *mongo.Collection
}

// NewMongoMessageRepository create a MessageRepository over the messages collection
func NewMongoMessageRepository(db *mongo.Database) MessageRepository {
	return &chatMessageRepository{
		coll: db.Collection("messages"),
	}
}

func (r *chatMessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	msg.ID = primitive.NewObjectID()
	msg.CreatedAt = time.Now().UTC()
	msg.Read = false
	msg.ReadAt = nil

	if _, err := r.coll.InsertOne(ctx, msg); err != nil {
		return apperr.Wrap(apperr.Persistence, "insert message", err)
	}
	return nil
}

func (r *chatMessageRepository) FindConversation(ctx context.Context, userA, userB, studentID string) ([]domain.Message, error) {
	filter := bson.M{
		"student_id": studentID,
		"$or": []bson.M{
			{"sender_id": userA, "receiver_id": userB},
			{"sender_id": userB, "receiver_id": userA},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "find conversation", err)
	}
	var msgs []domain.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "decode conversation", err)
	}
	return msgs, nil
}

func (r *chatMessageRepository) MarkReadByIDs(ctx context.Context, receiverID, senderID string, ids []primitive.ObjectID, readAt time.Time) (int64, error) {
	// read:false guard makes repeated application a no-op
	filter := bson.M{
		"_id":         bson.M{"$in": ids},
		"receiver_id": receiverID,
		"sender_id":   senderID,
		"read":        false,
	}
	update := bson.M{"$set": bson.M{"read": true, "read_at": readAt}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, apperr.Wrap(apperr.Persistence, "mark messages read", err)
	}
	return res.ModifiedCount, nil
}

func (r *chatMessageRepository) MarkConversationRead(ctx context.Context, receiverID, senderID, studentID string, readAt time.Time) (int64, error) {
	filter := bson.M{
		"receiver_id": receiverID,
		"sender_id":   senderID,
		"student_id":  studentID,
		"read":        false,
	}
	update := bson.M{"$set": bson.M{"read": true, "read_at": readAt}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, apperr.Wrap(apperr.Persistence, "acknowledge conversation", err)
	}
	return res.ModifiedCount, nil
}

func (r *chatMessageRepository) UnreadForConversation(ctx context.Context, receiverID, counterpartID, studentID string) (*domain.ConversationUnread, error) {
	unreadFilter := bson.M{
		"receiver_id": receiverID,
		"sender_id":   counterpartID,
		"student_id":  studentID,
		"read":        false,
	}
	count, err := r.coll.CountDocuments(ctx, unreadFilter)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "count unread", err)
	}

	info := &domain.ConversationUnread{Count: int(count)}

	// latest message of the conversation in either direction, for the preview
	lastFilter := bson.M{
		"student_id": studentID,
		"$or": []bson.M{
			{"sender_id": receiverID, "receiver_id": counterpartID},
			{"sender_id": counterpartID, "receiver_id": receiverID},
		},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var last domain.Message
	err = r.coll.FindOne(ctx, lastFilter, opts).Decode(&last)
	if err == mongo.ErrNoDocuments {
		return info, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "find last message", err)
	}
	info.LastMessage = last.Body
	info.LastMessageAt = &last.CreatedAt
	return info, nil
}

func (r *chatMessageRepository) UnreadSummary(ctx context.Context, receiverID, studentID string) ([]domain.CounterpartUnread, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{
			{Key: "receiver_id", Value: receiverID},
			{Key: "student_id", Value: studentID},
			{Key: "read", Value: false},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$sender_id"},
			{Key: "counterpart_kind", Value: bson.D{{Key: "$first", Value: "$sender_model"}}},
			{Key: "unread_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "last_message", Value: bson.D{{Key: "$first", Value: "$message"}}},
			{Key: "last_message_at", Value: bson.D{{Key: "$first", Value: "$created_at"}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "last_message_at", Value: -1}}}},
	}

	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "aggregate unread summary", err)
	}

	var results []domain.CounterpartUnread
	if err := cur.All(ctx, &results); err != nil {
		return nil, apperr.Wrap(apperr.Persistence, "decode unread summary", err)
	}

	return results, nil
}
