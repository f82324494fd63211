package services

import (
	"errors"
	"fmt"
	"strings"

	"estatelink_backend/internal/logger"
	"estatelink_backend/internal/models"
	"estatelink_backend/internal/models/chat"
	"estatelink_backend/internal/repositories"
	"estatelink_backend/internal/services/dto"
	"estatelink_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ChatService - ядро мессенджера: разрешение тредов, лента сообщений,
// рассылки застройщиков. Все методы принимают 'db *gorm.DB' и сами
// открывают транзакции там, где мутируется несколько таблиц.
type ChatService interface {
	CreateMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)
	CreateGroupThread(db *gorm.DB, userID string, req *dto.CreateGroupThreadRequest) (*dto.ThreadResponse, error)
	Broadcast(db *gorm.DB, userID string, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error)

	GetThread(db *gorm.DB, threadID, userID string) (*dto.ThreadResponse, error)
	GetUserThreads(db *gorm.DB, userID string, criteria dto.ThreadMessagesCriteria) (*dto.ThreadListResponse, error)
	GetMessages(db *gorm.DB, threadID, userID string, criteria dto.ThreadMessagesCriteria) (*dto.MessageListResponse, error)
	FindMessages(db *gorm.DB, userID string, q *dto.MessagesQuery) (*dto.MessageListResponse, error)
}

type chatService struct {
	chatRepo            repositories.ChatRepository
	userRepo            repositories.UserRepository
	propertyRepo        repositories.PropertyRepository
	orgRepo             repositories.OrganizationRepository
	orgService          OrgService
	notificationService NotificationService
	previewLen          int
}

func NewChatService(
	chatRepo repositories.ChatRepository,
	userRepo repositories.UserRepository,
	propertyRepo repositories.PropertyRepository,
	orgRepo repositories.OrganizationRepository,
	orgService OrgService,
	notificationService NotificationService,
	previewLen int,
) ChatService {
	if previewLen <= 0 {
		previewLen = 120
	}
	return &chatService{
		chatRepo:            chatRepo,
		userRepo:            userRepo,
		propertyRepo:        propertyRepo,
		orgRepo:             orgRepo,
		orgService:          orgService,
		notificationService: notificationService,
		previewLen:          previewLen,
	}
}

// Message operations

// CreateMessage принимает два режима: по thread_id (продолжение переписки)
// и по property_id + recipient_id (первый контакт по объявлению).
// Сообщение коммитится до нотификаций: упавший фан-аут не теряет текст.
func (s *chatService) CreateMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	var thread *chat.Thread
	var err error

	switch {
	case req.ThreadID != nil && *req.ThreadID != "":
		thread, err = s.resolveExistingThread(tx, *req.ThreadID, senderID, req.RecipientID)
	case req.PropertyID != nil && *req.PropertyID != "" && req.RecipientID != nil && *req.RecipientID != "":
		thread, err = s.resolveDirectThread(tx, senderID, *req.PropertyID, *req.RecipientID)
	default:
		return nil, apperrors.ErrInvalidOperation("messaging",
			"Either thread_id or property_id with recipient_id is required")
	}
	if err != nil {
		return nil, err
	}

	message := &chat.Message{
		ThreadID:    thread.ID,
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Body:        body,
	}
	if err := s.chatRepo.CreateMessage(tx, message); err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := s.chatRepo.TouchLastMessageAt(tx, thread.ID, message.CreatedAt); err != nil {
		return nil, apperrors.InternalError(err)
	}

	recipients := otherParticipants(thread, senderID)

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notifyParticipants(db, thread.ID, senderID, body, recipients)

	return messageToResponse(message), nil
}

// resolveExistingThread: отправитель обязан быть участником. Указанный
// recipient, если это существующий пользователь, доливается в участники.
func (s *chatService) resolveExistingThread(tx *gorm.DB, threadID, senderID string, recipientID *string) (*chat.Thread, error) {
	thread, err := s.chatRepo.FindThreadByID(tx, threadID)
	if err != nil {
		if errors.Is(err, repositories.ErrThreadNotFound) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !thread.HasParticipant(senderID) {
		return nil, apperrors.ErrNotAParticipant
	}

	if recipientID != nil && *recipientID != "" && !thread.HasParticipant(*recipientID) {
		if _, err := s.userRepo.FindByID(tx, *recipientID); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, apperrors.ErrUserNotFound
			}
			return nil, apperrors.InternalError(err)
		}
		if err := s.chatRepo.EnsureParticipants(tx, thread.ID, []string{*recipientID}); err != nil {
			return nil, apperrors.InternalError(err)
		}
		thread.Participants = append(thread.Participants, chat.ThreadParticipant{
			ThreadID: thread.ID,
			UserID:   *recipientID,
		})
	}
	return thread, nil
}

// resolveDirectThread - find-or-create треда первого контакта.
// Проверка прав выполняется только при отсутствии треда: существующая
// переписка продолжается всегда. Гонку двух первых контактов ловит
// unique индекс канонического ключа; проигравший переиспользует
// тред победителя.
func (s *chatService) resolveDirectThread(tx *gorm.DB, senderID, propertyID, recipientID string) (*chat.Thread, error) {
	if senderID == recipientID {
		return nil, apperrors.ErrSelfMessage
	}

	recipient, err := s.userRepo.FindByID(tx, recipientID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	existing, err := s.chatRepo.FindDirectThread(tx, propertyID, senderID, recipientID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repositories.ErrThreadNotFound) {
		return nil, apperrors.InternalError(err)
	}

	property, err := s.propertyRepo.FindByID(tx, propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrPropertyNotFound) {
			return nil, apperrors.ErrPropertyNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	sender, err := s.userRepo.FindByID(tx, senderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if err := checkFirstContact(property, sender, recipient); err != nil {
		return nil, err
	}

	thread := chat.NewDirectThread(propertyID, senderID, recipientID)
	if err := s.chatRepo.CreateThread(tx, thread); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, findErr := s.chatRepo.FindDirectThread(tx, propertyID, senderID, recipientID)
			if findErr != nil {
				return nil, apperrors.InternalError(findErr)
			}
			return winner, nil
		}
		return nil, apperrors.InternalError(err)
	}
	if err := s.chatRepo.EnsureParticipants(tx, thread.ID, []string{senderID, recipientID}); err != nil {
		return nil, apperrors.InternalError(err)
	}
	thread.Participants = []chat.ThreadParticipant{
		{ThreadID: thread.ID, UserID: senderID},
		{ThreadID: thread.ID, UserID: recipientID},
	}
	return thread, nil
}

// checkFirstContact - правила холодного контакта по объявлению.
// Все отказы отдаются одной и той же ошибкой: текст не раскрывает,
// какое правило сработало.
func checkFirstContact(property *models.Property, sender, recipient *models.User) error {
	senderIsContact := property.IsContact(sender.ID)
	recipientIsContact := property.IsContact(recipient.ID)

	if !recipientIsContact && !senderIsContact {
		return apperrors.ErrMessagingNotAllowed
	}
	if sender.Type == models.UserTypeBroker && recipient.Type == models.UserTypeOwner {
		return apperrors.ErrMessagingNotAllowed
	}
	if property.Status != models.PropertyStatusPublished && !senderIsContact {
		return apperrors.ErrMessagingNotAllowed
	}
	return nil
}

// Group threads

// CreateGroupThread всегда создает новый тред: групповые треды
// не дедуплицируются. Создатель попадает в участники всегда.
func (s *chatService) CreateGroupThread(db *gorm.DB, userID string, req *dto.CreateGroupThreadRequest) (*dto.ThreadResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ErrGroupTitleRequired
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	// Неизвестные id молча отбрасываются; после фильтрации нужен
	// хотя бы один участник кроме создателя.
	found, err := s.userRepo.FindByIDs(tx, req.ParticipantIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	participantSet := map[string]struct{}{userID: {}}
	for i := range found {
		participantSet[found[i].ID] = struct{}{}
	}
	if len(participantSet) < 2 {
		return nil, apperrors.ErrGroupParticipantsRequired
	}

	if req.OrgID != nil && *req.OrgID != "" {
		activeIDs, err := s.orgService.ListActiveMemberUserIDs(tx, *req.OrgID)
		if err != nil {
			return nil, err
		}
		activeSet := make(map[string]struct{}, len(activeIDs))
		for _, id := range activeIDs {
			activeSet[id] = struct{}{}
		}
		for id := range participantSet {
			if _, ok := activeSet[id]; !ok {
				return nil, apperrors.ErrNotOrgMember
			}
		}
	}

	thread := chat.NewGroupThread(title, req.OrgID, userID)
	if err := s.chatRepo.CreateThread(tx, thread); err != nil {
		return nil, apperrors.InternalError(err)
	}

	participantIDs := make([]string, 0, len(participantSet))
	for id := range participantSet {
		participantIDs = append(participantIDs, id)
	}
	if err := s.chatRepo.EnsureParticipants(tx, thread.ID, participantIDs); err != nil {
		return nil, apperrors.InternalError(err)
	}
	for _, id := range participantIDs {
		thread.Participants = append(thread.Participants, chat.ThreadParticipant{
			ThreadID: thread.ID,
			UserID:   id,
		})
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}
	return s.threadToResponse(db, thread), nil
}

// Broadcasts

// Broadcast - рассылка застройщика по всем одобренным партнерствам.
// Каждый партнер обрабатывается в своей транзакции: частичный провал
// не откатывает уже доставленное (at-least-once, повтор вызова может
// продублировать уведомления).
func (s *chatService) Broadcast(db *gorm.DB, userID string, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error) {
	body := strings.TrimSpace(req.Message)
	if body == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	developerOrgID, err := s.orgService.ResolveDeveloperOrgID(db, userID, req.DeveloperOrgID)
	if err != nil {
		return nil, err
	}
	developerOrg, err := s.orgRepo.FindOrganizationByID(db, developerOrgID)
	if err != nil {
		return nil, apperrors.ErrOrganizationNotFound
	}

	partnerships, err := s.orgRepo.ListApprovedPartnershipsByDeveloper(db, developerOrgID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	result := &dto.BroadcastResponse{}
	for i := range partnerships {
		brokerOrgID := partnerships[i].BrokerOrgID

		memberIDs, err := s.orgService.ListActiveMemberUserIDs(db, brokerOrgID)
		if err != nil {
			return nil, err
		}
		if len(memberIDs) == 0 {
			continue
		}

		created, err := s.broadcastToPartner(db, userID, developerOrg, brokerOrgID, req.Title, body, memberIDs)
		if err != nil {
			return nil, err
		}

		result.Delivered += len(memberIDs)
		if created {
			result.Threads++
		}
	}
	return result, nil
}

// broadcastToPartner доставляет рассылку в один брокеридж: тред, сообщение,
// отметка активности - в транзакции; нотификации - после коммита.
func (s *chatService) broadcastToPartner(db *gorm.DB, senderID string, developerOrg *models.Organization, brokerOrgID string, title *string, body string, memberIDs []string) (bool, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return false, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	thread, created, err := s.resolveBroadcastThread(tx, senderID, developerOrg, brokerOrgID, title, memberIDs)
	if err != nil {
		return false, err
	}

	message := &chat.Message{
		ThreadID: thread.ID,
		SenderID: senderID,
		Body:     body,
	}
	if err := s.chatRepo.CreateMessage(tx, message); err != nil {
		return false, apperrors.InternalError(err)
	}
	if err := s.chatRepo.TouchLastMessageAt(tx, thread.ID, message.CreatedAt); err != nil {
		return false, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return false, apperrors.InternalError(err)
	}

	// Уведомляются все участники канала, а не только текущий состав
	// брокериджа: состав монотонен, вышедшие из организации остаются
	// в переписке.
	recipientSet := make(map[string]struct{}, len(thread.Participants)+len(memberIDs))
	for _, p := range thread.Participants {
		recipientSet[p.UserID] = struct{}{}
	}
	for _, id := range memberIDs {
		recipientSet[id] = struct{}{}
	}
	delete(recipientSet, senderID)

	recipients := make([]string, 0, len(recipientSet))
	for id := range recipientSet {
		recipients = append(recipients, id)
	}
	s.notifyParticipants(db, thread.ID, senderID, body, recipients)

	return created, nil
}

// resolveBroadcastThread - find-or-create канала (застройщик, брокеридж).
// Состав участников доливается при каждом вызове: членство брокериджа
// могло измениться с прошлой рассылки. Гонку на создании ловит unique
// индекс пары организаций; проигравший переиспользует чужой тред.
func (s *chatService) resolveBroadcastThread(tx *gorm.DB, senderID string, developerOrg *models.Organization, brokerOrgID string, title *string, memberIDs []string) (*chat.Thread, bool, error) {
	participantIDs := append([]string{senderID}, memberIDs...)

	existing, err := s.chatRepo.FindBroadcastThread(tx, developerOrg.ID, brokerOrgID)
	if err == nil {
		if err := s.chatRepo.EnsureParticipants(tx, existing.ID, participantIDs); err != nil {
			return nil, false, apperrors.InternalError(err)
		}
		return existing, false, nil
	}
	if !errors.Is(err, repositories.ErrThreadNotFound) {
		return nil, false, apperrors.InternalError(err)
	}

	threadTitle := ""
	if title != nil {
		threadTitle = strings.TrimSpace(*title)
	}
	if threadTitle == "" {
		brokerOrg, err := s.orgRepo.FindOrganizationByID(tx, brokerOrgID)
		if err != nil {
			return nil, false, apperrors.InternalError(err)
		}
		threadTitle = fmt.Sprintf("%s -> %s", developerOrg.Name, brokerOrg.Name)
	}

	thread := chat.NewBroadcastThread(developerOrg.ID, brokerOrgID, threadTitle, senderID)
	if err := s.chatRepo.CreateThread(tx, thread); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			winner, findErr := s.chatRepo.FindBroadcastThread(tx, developerOrg.ID, brokerOrgID)
			if findErr != nil {
				return nil, false, apperrors.InternalError(findErr)
			}
			if err := s.chatRepo.EnsureParticipants(tx, winner.ID, participantIDs); err != nil {
				return nil, false, apperrors.InternalError(err)
			}
			return winner, false, nil
		}
		return nil, false, apperrors.InternalError(err)
	}
	if err := s.chatRepo.EnsureParticipants(tx, thread.ID, participantIDs); err != nil {
		return nil, false, apperrors.InternalError(err)
	}
	for _, id := range participantIDs {
		thread.Participants = append(thread.Participants, chat.ThreadParticipant{
			ThreadID: thread.ID,
			UserID:   id,
		})
	}
	return thread, true, nil
}

// Reads

func (s *chatService) GetThread(db *gorm.DB, threadID, userID string) (*dto.ThreadResponse, error) {
	thread, err := s.chatRepo.FindThreadByID(db, threadID)
	if err != nil {
		if errors.Is(err, repositories.ErrThreadNotFound) {
			return nil, apperrors.ErrThreadNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !thread.HasParticipant(userID) {
		return nil, apperrors.ErrNotAParticipant
	}
	return s.threadToResponse(db, thread), nil
}

func (s *chatService) GetUserThreads(db *gorm.DB, userID string, criteria dto.ThreadMessagesCriteria) (*dto.ThreadListResponse, error) {
	page, pageSize, offset := normalizePage(criteria.Page, criteria.PageSize)

	threads, total, err := s.chatRepo.FindUserThreads(db, userID, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.ThreadResponse, 0, len(threads))
	for i := range threads {
		items = append(items, s.threadToResponse(db, &threads[i]))
	}
	return &dto.ThreadListResponse{
		Threads:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// GetMessages проверяет участие по строке участника, не поднимая тред:
// несуществующий и чужой тред снаружи неразличимы.
func (s *chatService) GetMessages(db *gorm.DB, threadID, userID string, criteria dto.ThreadMessagesCriteria) (*dto.MessageListResponse, error) {
	member, err := s.chatRepo.IsUserInThread(db, threadID, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !member {
		return nil, apperrors.ErrNotAParticipant
	}

	page, pageSize, offset := normalizePage(criteria.Page, criteria.PageSize)
	messages, total, err := s.chatRepo.FindMessagesByThread(db, threadID, pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	senderNames := s.senderNames(db, messages)
	items := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		item := messageToResponse(&messages[i])
		item.SenderName = senderNames[item.SenderID]
		items = append(items, item)
	}
	return &dto.MessageListResponse{
		Messages:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
		HasMore:    int64(offset+len(messages)) < total,
	}, nil
}

// FindMessages - лента по thread_id либо по property_id. Если по объявлению
// у пользователя несколько переписок и собеседник не указан, запрос
// отклоняется как неоднозначный.
func (s *chatService) FindMessages(db *gorm.DB, userID string, q *dto.MessagesQuery) (*dto.MessageListResponse, error) {
	criteria := dto.ThreadMessagesCriteria{Page: q.Page, PageSize: q.PageSize}

	switch {
	case q.ThreadID != nil && *q.ThreadID != "":
		return s.GetMessages(db, *q.ThreadID, userID, criteria)
	case q.PropertyID != nil && *q.PropertyID != "":
		threadID, err := s.resolvePropertyThreadID(db, userID, *q.PropertyID, q.RecipientID)
		if err != nil {
			return nil, err
		}
		return s.GetMessages(db, threadID, userID, criteria)
	default:
		return nil, apperrors.ErrInvalidOperation("messaging",
			"Either thread_id or property_id is required")
	}
}

func (s *chatService) resolvePropertyThreadID(db *gorm.DB, userID, propertyID string, recipientID *string) (string, error) {
	if recipientID != nil && *recipientID != "" {
		thread, err := s.chatRepo.FindDirectThread(db, propertyID, userID, *recipientID)
		if err != nil {
			if errors.Is(err, repositories.ErrThreadNotFound) {
				return "", apperrors.ErrThreadNotFound
			}
			return "", apperrors.InternalError(err)
		}
		return thread.ID, nil
	}

	threads, err := s.chatRepo.FindUserDirectThreadsByProperty(db, propertyID, userID)
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	switch len(threads) {
	case 0:
		return "", apperrors.ErrThreadNotFound
	case 1:
		return threads[0].ID, nil
	default:
		return "", apperrors.ErrInvalidOperation("messaging",
			"Several conversations exist for this listing; pass recipient_id")
	}
}

func (s *chatService) senderNames(db *gorm.DB, messages []chat.Message) map[string]string {
	names := make(map[string]string)
	ids := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for i := range messages {
		if _, ok := seen[messages[i].SenderID]; ok {
			continue
		}
		seen[messages[i].SenderID] = struct{}{}
		ids = append(ids, messages[i].SenderID)
	}
	users, err := s.userRepo.FindByIDs(db, ids)
	if err != nil {
		return names
	}
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	return names
}

// Notification fan-out

// notifyParticipants шлет message-уведомление каждому получателю.
// Вызывается после коммита сообщения; единичный отказ логируется
// и не прерывает остальных.
func (s *chatService) notifyParticipants(db *gorm.DB, threadID, senderID, body string, recipientIDs []string) {
	if len(recipientIDs) == 0 {
		return
	}

	senderName := ""
	if sender, err := s.userRepo.FindByID(db, senderID); err == nil {
		senderName = sender.Name
	}

	preview := truncatePreview(body, s.previewLen)
	message := preview
	if senderName != "" {
		message = senderName + ": " + preview
	}
	link := "/chat/threads/" + threadID
	data := map[string]interface{}{"thread_id": threadID}

	for _, recipientID := range recipientIDs {
		if _, err := s.notificationService.NotifyUser(db, recipientID, models.NotificationTypeMessage, message, link, data); err != nil {
			logger.Warn("message notification failed",
				"thread_id", threadID, "recipient_id", recipientID, "error", err)
		}
	}
}

// Helpers

func otherParticipants(thread *chat.Thread, senderID string) []string {
	ids := make([]string, 0, len(thread.Participants))
	for _, p := range thread.Participants {
		if p.UserID != senderID {
			ids = append(ids, p.UserID)
		}
	}
	return ids
}

func truncatePreview(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return string(runes[:max]) + "..."
}

func messageToResponse(m *chat.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:          m.ID,
		ThreadID:    m.ThreadID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Message:     m.Body,
		CreatedAt:   m.CreatedAt,
	}
}

func (s *chatService) threadToResponse(db *gorm.DB, t *chat.Thread) *dto.ThreadResponse {
	resp := &dto.ThreadResponse{
		ID:             t.ID,
		Type:           string(t.Type),
		Title:          t.Title,
		PropertyID:     t.PropertyID,
		OrgID:          t.OrgID,
		DeveloperOrgID: t.DeveloperOrgID,
		BrokerageOrgID: t.BrokerageOrgID,
		LastMessageAt:  t.LastMessageAt,
		CreatedAt:      t.CreatedAt,
	}

	userNames := s.participantNames(db, t)
	resp.Participants = make([]*dto.ParticipantResponse, 0, len(t.Participants))
	for _, p := range t.Participants {
		resp.Participants = append(resp.Participants, &dto.ParticipantResponse{
			UserID:   p.UserID,
			UserName: userNames[p.UserID],
			JoinedAt: p.JoinedAt,
		})
	}

	if last, err := s.chatRepo.FindLastMessage(db, t.ID); err == nil && last != nil {
		resp.LastMessage = messageToResponse(last)
	}
	return resp
}

func (s *chatService) participantNames(db *gorm.DB, t *chat.Thread) map[string]string {
	names := make(map[string]string, len(t.Participants))
	users, err := s.userRepo.FindByIDs(db, t.ParticipantIDs())
	if err != nil {
		return names
	}
	for i := range users {
		names[users[i].ID] = users[i].Name
	}
	return names
}
