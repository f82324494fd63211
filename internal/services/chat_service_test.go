package services_test

import (
	"testing"

	"estatelink_backend/internal/models"
	"estatelink_backend/internal/services/dto"
	"estatelink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Первый контакт по объявлению ---

func TestCreateMessage_BrokerToOwnerColdContactDenied(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	broker := env.createUser(t, "broker", models.UserTypeBroker)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	_, err := env.chatService.CreateMessage(env.db, broker.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Hi, I have a client for you",
	})
	assert.ErrorIs(t, err, apperrors.ErrMessagingNotAllowed)
}

func TestCreateMessage_ExistingThreadBypassesGate(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	broker := env.createUser(t, "broker", models.UserTypeBroker)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	// Владелец начинает переписку сам
	first, err := env.chatService.CreateMessage(env.db, owner.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &broker.ID,
		Message:     "Are you interested?",
	})
	require.NoError(t, err)

	// Ответ брокера идет в существующий тред, правила холодного
	// контакта уже не применяются
	reply, err := env.chatService.CreateMessage(env.db, broker.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Yes, definitely",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ThreadID, reply.ThreadID)
}

func TestCreateMessage_NeitherSideIsContact(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	stranger := env.createUser(t, "stranger", models.UserTypeDeveloper)
	outsider := env.createUser(t, "outsider", models.UserTypeOwner)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	_, err := env.chatService.CreateMessage(env.db, stranger.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &outsider.ID,
		Message:     "Random message",
	})
	assert.ErrorIs(t, err, apperrors.ErrMessagingNotAllowed)
}

func TestCreateMessage_UnpublishedProperty(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	developer := env.createUser(t, "developer", models.UserTypeDeveloper)
	property := env.createProperty(t, "Flat", models.PropertyStatusDraft, strPtr(owner.ID))

	// Чужой пользователь не может писать по неопубликованному объявлению
	_, err := env.chatService.CreateMessage(env.db, developer.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "About your draft",
	})
	assert.ErrorIs(t, err, apperrors.ErrMessagingNotAllowed)

	// Назначенный контакт может, независимо от статуса
	_, err = env.chatService.CreateMessage(env.db, owner.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &developer.ID,
		Message:     "Check out my draft",
	})
	require.NoError(t, err)

	// После публикации путь открыт
	require.NoError(t, env.db.Model(property).Update("status", models.PropertyStatusPublished).Error)

	other := env.createUser(t, "other", models.UserTypeDeveloper)
	resp, err := env.chatService.CreateMessage(env.db, other.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Now published",
	})
	require.NoError(t, err)

	thread, err := env.chatService.GetThread(env.db, resp.ThreadID, other.ID)
	require.NoError(t, err)
	assert.Len(t, thread.Participants, 2)
}

func TestCreateMessage_DirectThreadDeduplicated(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	buyer := env.createUser(t, "buyer", models.UserTypeOwner)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	first, err := env.chatService.CreateMessage(env.db, buyer.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Is it available?",
	})
	require.NoError(t, err)

	second, err := env.chatService.CreateMessage(env.db, buyer.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Still there?",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ThreadID, second.ThreadID)

	// Обратное направление попадает в тот же тред
	reverse, err := env.chatService.CreateMessage(env.db, owner.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &buyer.ID,
		Message:     "Yes it is",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ThreadID, reverse.ThreadID)

	messages, err := env.chatService.GetMessages(env.db, first.ThreadID, owner.ID, dto.ThreadMessagesCriteria{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, messages.Total)
}

func TestCreateMessage_SelfMessageRejected(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	_, err := env.chatService.CreateMessage(env.db, owner.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Note to self",
	})
	assert.ErrorIs(t, err, apperrors.ErrSelfMessage)
}

func TestCreateMessage_ThreadModeRequiresParticipant(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	buyer := env.createUser(t, "buyer", models.UserTypeOwner)
	intruder := env.createUser(t, "intruder", models.UserTypeBroker)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	resp, err := env.chatService.CreateMessage(env.db, buyer.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Hello",
	})
	require.NoError(t, err)

	_, err = env.chatService.CreateMessage(env.db, intruder.ID, &dto.SendMessageRequest{
		ThreadID: &resp.ThreadID,
		Message:  "Let me in",
	})
	assert.ErrorIs(t, err, apperrors.ErrNotAParticipant)

	missing := "00000000-0000-0000-0000-000000000000"
	_, err = env.chatService.CreateMessage(env.db, buyer.ID, &dto.SendMessageRequest{
		ThreadID: &missing,
		Message:  "Anybody here?",
	})
	assert.ErrorIs(t, err, apperrors.ErrThreadNotFound)
}

func TestCreateMessage_RequiresTargetFields(t *testing.T) {
	env := newTestEnv(t)
	sender := env.createUser(t, "sender", models.UserTypeOwner)

	_, err := env.chatService.CreateMessage(env.db, sender.ID, &dto.SendMessageRequest{
		Message: "Into the void",
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)

	_, err = env.chatService.CreateMessage(env.db, sender.ID, &dto.SendMessageRequest{
		Message: "   ",
	})
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
}

func TestCreateMessage_NotifiesRecipientOnly(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	buyer := env.createUser(t, "buyer", models.UserTypeOwner)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	_, err := env.chatService.CreateMessage(env.db, buyer.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "Ping",
	})
	require.NoError(t, err)

	assert.EqualValues(t, 1, env.counter(t, owner.ID).MessageCount)
	assert.EqualValues(t, 0, env.counter(t, owner.ID).Count)
	assert.EqualValues(t, 0, env.counter(t, buyer.ID).MessageCount)
	assert.EqualValues(t, 1, env.unreadCount(t, owner.ID, models.NotificationTypeMessage))
}

func TestFindMessages_ByPropertyAndThread(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	buyerA := env.createUser(t, "buyer-a", models.UserTypeOwner)
	buyerB := env.createUser(t, "buyer-b", models.UserTypeOwner)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	sent, err := env.chatService.CreateMessage(env.db, buyerA.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "From A",
	})
	require.NoError(t, err)

	// У покупателя одна переписка по объявлению: property_id достаточно
	byProperty, err := env.chatService.FindMessages(env.db, buyerA.ID, &dto.MessagesQuery{
		PropertyID: &property.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, byProperty.Total)
	assert.Equal(t, "From A", byProperty.Messages[0].Message)
	assert.Equal(t, "buyer-a", byProperty.Messages[0].SenderName)

	byThread, err := env.chatService.FindMessages(env.db, buyerA.ID, &dto.MessagesQuery{
		ThreadID: &sent.ThreadID,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, byThread.Total)

	// У владельца две переписки: без recipient_id запрос неоднозначен
	_, err = env.chatService.CreateMessage(env.db, buyerB.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "From B",
	})
	require.NoError(t, err)

	_, err = env.chatService.FindMessages(env.db, owner.ID, &dto.MessagesQuery{
		PropertyID: &property.ID,
	})
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)

	disambiguated, err := env.chatService.FindMessages(env.db, owner.ID, &dto.MessagesQuery{
		PropertyID:  &property.ID,
		RecipientID: &buyerB.ID,
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, disambiguated.Total)
	assert.Equal(t, "From B", disambiguated.Messages[0].Message)

	// Без переписки - тред не найден
	outsider := env.createUser(t, "outsider", models.UserTypeOwner)
	_, err = env.chatService.FindMessages(env.db, outsider.ID, &dto.MessagesQuery{
		PropertyID: &property.ID,
	})
	assert.ErrorIs(t, err, apperrors.ErrThreadNotFound)

	// Ни thread_id, ни property_id
	_, err = env.chatService.FindMessages(env.db, owner.ID, &dto.MessagesQuery{})
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeInvalidOperation, appErr.Code)
}

// --- Групповые треды ---

func TestCreateGroupThread_Basics(t *testing.T) {
	env := newTestEnv(t)

	creator := env.createUser(t, "creator", models.UserTypeBroker)
	colleague := env.createUser(t, "colleague", models.UserTypeBroker)

	_, err := env.chatService.CreateGroupThread(env.db, creator.ID, &dto.CreateGroupThreadRequest{
		Title:          "   ",
		ParticipantIDs: []string{colleague.ID},
	})
	assert.ErrorIs(t, err, apperrors.ErrGroupTitleRequired)

	// Неизвестные id отбрасываются; без второго реального участника отказ
	_, err = env.chatService.CreateGroupThread(env.db, creator.ID, &dto.CreateGroupThreadRequest{
		Title:          "Deal room",
		ParticipantIDs: []string{"no-such-user"},
	})
	assert.ErrorIs(t, err, apperrors.ErrGroupParticipantsRequired)

	resp, err := env.chatService.CreateGroupThread(env.db, creator.ID, &dto.CreateGroupThreadRequest{
		Title:          "Deal room",
		ParticipantIDs: []string{colleague.ID, "no-such-user", creator.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "group", resp.Type)
	assert.Len(t, resp.Participants, 2)

	// Групповые треды не дедуплицируются
	again, err := env.chatService.CreateGroupThread(env.db, creator.ID, &dto.CreateGroupThreadRequest{
		Title:          "Deal room",
		ParticipantIDs: []string{colleague.ID},
	})
	require.NoError(t, err)
	assert.NotEqual(t, resp.ID, again.ID)
}

func TestCreateGroupThread_OrgGate(t *testing.T) {
	env := newTestEnv(t)

	org := env.createOrg(t, "Acme Brokers", models.OrgTypeBrokerage)
	creator := env.createUser(t, "creator", models.UserTypeBroker)
	member := env.createUser(t, "member", models.UserTypeBroker)
	invited := env.createUser(t, "invited", models.UserTypeBroker)
	env.addMember(t, org, creator, models.MembershipRoleAdmin, models.MembershipStatusActive)
	env.addMember(t, org, member, models.MembershipRoleMember, models.MembershipStatusActive)
	env.addMember(t, org, invited, models.MembershipRoleMember, models.MembershipStatusInvited)

	resp, err := env.chatService.CreateGroupThread(env.db, creator.ID, &dto.CreateGroupThreadRequest{
		Title:          "Team chat",
		OrgID:          &org.ID,
		ParticipantIDs: []string{member.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, org.ID, *resp.OrgID)

	// invited еще не active, в организационный тред не попадает
	_, err = env.chatService.CreateGroupThread(env.db, creator.ID, &dto.CreateGroupThreadRequest{
		Title:          "Team chat",
		OrgID:          &org.ID,
		ParticipantIDs: []string{invited.ID},
	})
	assert.ErrorIs(t, err, apperrors.ErrNotOrgMember)
}

// --- Рассылки застройщиков ---

func TestBroadcast_DeliversToApprovedPartners(t *testing.T) {
	env := newTestEnv(t)

	devOrg := env.createOrg(t, "BuildCo", models.OrgTypeDeveloper)
	sender := env.createUser(t, "sender", models.UserTypeDeveloper)
	env.addMember(t, devOrg, sender, models.MembershipRoleAdmin, models.MembershipStatusActive)

	// Два партнера: 3 и 5 активных участников
	brokerA := env.createOrg(t, "Alpha Realty", models.OrgTypeBrokerage)
	brokerB := env.createOrg(t, "Beta Realty", models.OrgTypeBrokerage)
	env.approvePartnership(t, brokerA, devOrg, sender.ID)
	env.approvePartnership(t, brokerB, devOrg, sender.ID)

	var memberA1 *models.User
	for i := 0; i < 3; i++ {
		u := env.createUser(t, "alpha-"+string(rune('a'+i)), models.UserTypeBroker)
		env.addMember(t, brokerA, u, models.MembershipRoleMember, models.MembershipStatusActive)
		if i == 0 {
			memberA1 = u
		}
	}
	for i := 0; i < 5; i++ {
		u := env.createUser(t, "beta-"+string(rune('a'+i)), models.UserTypeBroker)
		env.addMember(t, brokerB, u, models.MembershipRoleMember, models.MembershipStatusActive)
	}

	// Партнер без активных участников пропускается
	brokerEmpty := env.createOrg(t, "Ghost Realty", models.OrgTypeBrokerage)
	env.approvePartnership(t, brokerEmpty, devOrg, sender.ID)

	// Pending-партнерство не участвует
	brokerPending := env.createOrg(t, "Maybe Realty", models.OrgTypeBrokerage)
	pendingUser := env.createUser(t, "maybe", models.UserTypeBroker)
	env.addMember(t, brokerPending, pendingUser, models.MembershipRoleMember, models.MembershipStatusActive)
	pending := env.approvePartnership(t, brokerPending, devOrg, sender.ID)
	require.NoError(t, env.db.Model(pending).Update("status", models.PartnershipStatusPending).Error)

	resp, err := env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{
		Message: "New tower launching next month",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Delivered)
	assert.Equal(t, 2, resp.Threads)

	// Повтор переиспользует существующие каналы
	resp, err = env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{
		Message: "Reminder about the launch",
	})
	require.NoError(t, err)
	assert.Equal(t, 8, resp.Delivered)
	assert.Equal(t, 0, resp.Threads)

	// Заголовок по умолчанию и содержимое канала
	thread, err := env.chatRepo.FindBroadcastThread(env.db, devOrg.ID, brokerA.ID)
	require.NoError(t, err)
	require.NotNil(t, thread.Title)
	assert.Equal(t, "BuildCo -> Alpha Realty", *thread.Title)

	messages, err := env.chatService.GetMessages(env.db, thread.ID, memberA1.ID, dto.ThreadMessagesCriteria{})
	require.NoError(t, err)
	require.EqualValues(t, 2, messages.Total)
	// Свежие первыми
	assert.Equal(t, "Reminder about the launch", messages.Messages[0].Message)
	assert.Equal(t, "New tower launching next month", messages.Messages[1].Message)
	assert.Equal(t, "sender", messages.Messages[0].SenderName)

	// Каждая рассылка дала message-уведомление участнику брокериджа
	assert.EqualValues(t, 2, env.counter(t, memberA1.ID).MessageCount)
}

// Вышедший из брокериджа пользователь остается участником канала
// и продолжает получать уведомления о рассылках.
func TestBroadcast_NotifiesFormerMembersStillInThread(t *testing.T) {
	env := newTestEnv(t)

	devOrg := env.createOrg(t, "BuildCo", models.OrgTypeDeveloper)
	sender := env.createUser(t, "sender", models.UserTypeDeveloper)
	env.addMember(t, devOrg, sender, models.MembershipRoleAdmin, models.MembershipStatusActive)

	broker := env.createOrg(t, "Alpha Realty", models.OrgTypeBrokerage)
	env.approvePartnership(t, broker, devOrg, sender.ID)

	staying := env.createUser(t, "staying", models.UserTypeBroker)
	leaving := env.createUser(t, "leaving", models.UserTypeBroker)
	env.addMember(t, broker, staying, models.MembershipRoleMember, models.MembershipStatusActive)
	env.addMember(t, broker, leaving, models.MembershipRoleMember, models.MembershipStatusActive)

	resp, err := env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{Message: "First wave"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Delivered)
	assert.Equal(t, 1, resp.Threads)

	require.NoError(t, env.db.Model(&models.OrgMembership{}).
		Where("org_id = ? AND user_id = ?", broker.ID, leaving.ID).
		Update("status", models.MembershipStatusRemoved).Error)

	resp, err = env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{Message: "Second wave"})
	require.NoError(t, err)
	// Delivered считает только текущий состав
	assert.Equal(t, 1, resp.Delivered)
	assert.Equal(t, 0, resp.Threads)

	// Уведомления дошли обоим: участие в треде монотонно
	assert.EqualValues(t, 2, env.unreadCount(t, staying.ID, models.NotificationTypeMessage))
	assert.EqualValues(t, 2, env.unreadCount(t, leaving.ID, models.NotificationTypeMessage))

	thread, err := env.chatRepo.FindBroadcastThread(env.db, devOrg.ID, broker.ID)
	require.NoError(t, err)
	assert.True(t, thread.HasParticipant(leaving.ID))
}

func TestBroadcast_ResolvesDeveloperOrg(t *testing.T) {
	env := newTestEnv(t)

	outsider := env.createUser(t, "outsider", models.UserTypeDeveloper)
	_, err := env.chatService.Broadcast(env.db, outsider.ID, &dto.BroadcastRequest{Message: "Hello"})
	assert.ErrorIs(t, err, apperrors.ErrNoDeveloperMembership)

	sender := env.createUser(t, "sender", models.UserTypeDeveloper)
	devA := env.createOrg(t, "Dev A", models.OrgTypeDeveloper)
	devB := env.createOrg(t, "Dev B", models.OrgTypeDeveloper)
	env.addMember(t, devA, sender, models.MembershipRoleAdmin, models.MembershipStatusActive)
	env.addMember(t, devB, sender, models.MembershipRoleAdmin, models.MembershipStatusActive)

	// Два членства без явного выбора организации
	_, err = env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{Message: "Hello"})
	assert.ErrorIs(t, err, apperrors.ErrAmbiguousDeveloperOrg)

	// Явный выбор работает даже без партнерств
	resp, err := env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{
		DeveloperOrgID: &devA.ID,
		Message:        "Hello",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Delivered)
	assert.Equal(t, 0, resp.Threads)

	// Чужая организация отклоняется
	devC := env.createOrg(t, "Dev C", models.OrgTypeDeveloper)
	_, err = env.chatService.Broadcast(env.db, sender.ID, &dto.BroadcastRequest{
		DeveloperOrgID: &devC.ID,
		Message:        "Hello",
	})
	assert.ErrorIs(t, err, apperrors.ErrNoDeveloperMembership)
}

// --- Чтение ---

func TestGetUserThreads_And_Messages(t *testing.T) {
	env := newTestEnv(t)

	owner := env.createUser(t, "owner", models.UserTypeOwner)
	buyer := env.createUser(t, "buyer", models.UserTypeOwner)
	stranger := env.createUser(t, "stranger", models.UserTypeOwner)
	property := env.createProperty(t, "Flat", models.PropertyStatusPublished, strPtr(owner.ID))

	resp, err := env.chatService.CreateMessage(env.db, buyer.ID, &dto.SendMessageRequest{
		PropertyID:  &property.ID,
		RecipientID: &owner.ID,
		Message:     "First",
	})
	require.NoError(t, err)

	threads, err := env.chatService.GetUserThreads(env.db, buyer.ID, dto.ThreadMessagesCriteria{})
	require.NoError(t, err)
	require.Len(t, threads.Threads, 1)
	assert.Equal(t, resp.ThreadID, threads.Threads[0].ID)
	require.NotNil(t, threads.Threads[0].LastMessage)
	assert.Equal(t, "First", threads.Threads[0].LastMessage.Message)

	// Посторонний ничего не видит
	empty, err := env.chatService.GetUserThreads(env.db, stranger.ID, dto.ThreadMessagesCriteria{})
	require.NoError(t, err)
	assert.Empty(t, empty.Threads)

	_, err = env.chatService.GetMessages(env.db, resp.ThreadID, stranger.ID, dto.ThreadMessagesCriteria{})
	assert.ErrorIs(t, err, apperrors.ErrNotAParticipant)

	_, err = env.chatService.GetThread(env.db, resp.ThreadID, stranger.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotAParticipant)
}
